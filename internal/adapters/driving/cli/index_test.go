package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldtriage/internal/core/ports/driving"
)

func TestIndexBuildCmd_PrintsReport(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "index", "build")

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 3 policies (3 embedded with bge-m3)")
}

func TestIndexBuildCmd_KeywordOnly(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	services.Index = &mockIndexService{report: driving.IndexReport{Documents: 2}}

	out, err := execute(t, "index", "build")

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 policies")
	assert.NotContains(t, out, "embedded")
}

func TestIndexBuildCmd_Error(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	services.Index = &mockIndexService{err: errors.New("duplicate id P001")}

	_, err := execute(t, "index", "build")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id P001")
}

func TestIndexCmds_RejectEphemeralStorage(t *testing.T) {
	for _, sub := range []string{"build", "watch"} {
		t.Run(sub, func(t *testing.T) {
			cleanup := setupTestServices()
			defer cleanup()
			services.Current.Storage.Ephemeral = true
			services.CorpusPath = "/tmp/corpus.yaml"
			index := &mockIndexService{}
			services.Index = index

			_, err := execute(t, "index", sub)

			assert.ErrorIs(t, err, errEphemeralIndex)
			assert.Zero(t, index.builds)
		})
	}
}

func TestIndexWatchCmd_RequiresCorpusPath(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "index", "watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus path not configured")
}

func TestWatchCorpus_RebuildsOnWrite(t *testing.T) {
	old := watchDebounce
	watchDebounce = 20 * time.Millisecond
	defer func() { watchDebounce = old }()

	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchCorpus(ctx, path, func(context.Context) { rebuilds.Add(1) })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("- id: P001\n  content: x\n"), 0o600))
	}

	assert.Eventually(t, func() bool { return rebuilds.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchCorpus_MissingDirectory(t *testing.T) {
	err := watchCorpus(context.Background(), filepath.Join(t.TempDir(), "missing", "corpus.yaml"),
		func(context.Context) {})
	assert.Error(t, err)
}

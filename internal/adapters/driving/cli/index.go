package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// errEphemeralIndex rejects index commands when the index lives in memory.
var errEphemeralIndex = errors.New("storage is ephemeral: the corpus is indexed in memory at startup, restart serving processes instead")

// watchDebounce coalesces the burst of events an editor save produces.
var watchDebounce = 500 * time.Millisecond

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the policy index",
	Long:  `Commands for building the durable policy index from the corpus file.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the policy index",
	Long: `Loads the corpus, embeds every policy when an embedding provider is
configured, and replaces the stored index in one transaction.

Running ask and mcp serve processes keep the index they loaded at startup;
restart them to serve the rebuilt index. Not available with
storage.ephemeral, where the index is built in memory at startup.`,
	Args: cobra.NoArgs,
	RunE: runIndexBuild,
}

var indexWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the policy index when the corpus changes",
	Long: `Builds the policy index, then rebuilds it whenever the corpus file changes.

Each rebuild replaces the stored index. Running ask and mcp serve processes
keep the index they loaded at startup; restart them to serve the rebuilt
index. Not available with storage.ephemeral.`,
	Args: cobra.NoArgs,
	RunE: runIndexWatch,
}

func init() {
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexWatchCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Index == nil {
		return errNotConfigured("index service")
	}
	if services.Current.Storage.Ephemeral {
		return errEphemeralIndex
	}
	return buildIndex(cmd)
}

func buildIndex(cmd *cobra.Command) error {
	report, err := services.Index.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Indexed %d policies", report.Documents)
	if report.Model != "" {
		cmd.Printf(" (%d embedded with %s)", report.Embedded, report.Model)
	}
	cmd.Println()
	return nil
}

func runIndexWatch(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Index == nil {
		return errNotConfigured("index service")
	}
	if services.Current.Storage.Ephemeral {
		return errEphemeralIndex
	}
	if services.CorpusPath == "" {
		return errNotConfigured("corpus path")
	}

	if err := buildIndex(cmd); err != nil {
		return err
	}
	cmd.Printf("Watching %s for changes\n", services.CorpusPath)

	return watchCorpus(cmd.Context(), services.CorpusPath, func(context.Context) {
		if err := buildIndex(cmd); err != nil {
			logger.Error("rebuild: %v", err)
		}
	})
}

// watchCorpus calls rebuild after the corpus file settles. The parent
// directory is watched so editors that replace the file are still seen.
// It blocks until the context is cancelled.
func watchCorpus(ctx context.Context, path string, rebuild func(context.Context)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch corpus: %w", err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				logger.Debug("corpus event: %s", event)
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-timer.C:
			rebuild(ctx)
		}
	}
}

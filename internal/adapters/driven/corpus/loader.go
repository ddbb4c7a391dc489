// Package corpus loads the static policy corpus from disk.
//
// YAML (.yaml, .yml) and JSON (.json) files are accepted. Either format
// holds a top-level list of policy documents, or a mapping with a
// "policies" key containing that list.
package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.CorpusSource = (*FileSource)(nil)

// FileSource reads a corpus file.
type FileSource struct {
	path string
}

// NewFileSource creates a corpus source for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the corpus file path.
func (s *FileSource) Path() string {
	return s.path
}

type envelope struct {
	Policies []domain.PolicyDocument `json:"policies" yaml:"policies"`
}

// Load reads and decodes the corpus file.
func (s *FileSource) Load(ctx context.Context) ([]domain.PolicyDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("corpus %s: %w", s.path, domain.ErrUnsupportedType)
	}
}

func decodeJSON(data []byte) ([]domain.PolicyDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []domain.PolicyDocument
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("decoding corpus: %w", err)
		}
		return docs, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decoding corpus: %w", err)
	}
	return env.Policies, nil
}

func decodeYAML(data []byte) ([]domain.PolicyDocument, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decoding corpus: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var docs []domain.PolicyDocument
		if err := root.Decode(&docs); err != nil {
			return nil, fmt.Errorf("decoding corpus: %w", err)
		}
		return docs, nil
	}
	var env envelope
	if err := root.Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding corpus: %w", err)
	}
	return env.Policies, nil
}

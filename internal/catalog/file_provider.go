package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"rentgrip/internal/domain"
)

// FileProvider reads a catalog from a JSON or YAML file. The file holds
// either {items, categories} or a bare list of items.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider for path
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Path returns the catalog file path
func (p *FileProvider) Path() string {
	return p.path
}

// Fetch reads and decodes the file
func (p *FileProvider) Fetch(ctx context.Context) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return Catalog{}, err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Decode(data, formatOf(p.path))
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog %s: %w", filepath.Base(p.path), err)
	}
	return c, nil
}

// Format is a catalog file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a catalog document
func Decode(data []byte, format Format) (Catalog, error) {
	var c Catalog
	switch format {
	case FormatYAML:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return c, err
		}
		if len(root.Content) == 0 {
			return c, nil
		}
		doc := root.Content[0]
		if doc.Kind == yaml.SequenceNode {
			err := doc.Decode(&c.Items)
			return c, err
		}
		err := doc.Decode(&c)
		return c, err

	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return c, nil
		}
		if trimmed[0] == '[' {
			var items []domain.Item
			err := json.Unmarshal(trimmed, &items)
			c.Items = items
			return c, err
		}
		err := json.Unmarshal(trimmed, &c)
		return c, err
	}
}

// WriteFile encodes c to path, choosing the format from the extension
func WriteFile(path string, c Catalog) error {
	var (
		data []byte
		err  error
	)
	switch formatOf(path) {
	case FormatYAML:
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rrens/lookup-bot/internal/domain"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of an external catalog. Operations are nested
// under the category that lists them; an operation may appear in more than
// one category by repeating its id without an endpoint.
type File struct {
	BaseURL    string         `yaml:"base_url"`
	Categories []fileCategory `yaml:"categories"`
}

type fileCategory struct {
	ID         domain.CategoryID  `yaml:"id"`
	Name       string             `yaml:"name"`
	Operations []domain.Operation `yaml:"operations"`
}

// LoadFile reads a YAML catalog from disk. An empty base_url in the file
// falls back to baseURL.
func LoadFile(path, baseURL string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data, baseURL)
}

// Parse builds a catalog from YAML. Relative endpoints are joined to the base URL.
func Parse(data []byte, baseURL string) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	base := f.BaseURL
	if base == "" {
		base = baseURL
	}
	base = strings.TrimRight(base, "/")

	var (
		categories = make([]domain.Category, 0, len(f.Categories))
		operations []domain.Operation
		defined    = make(map[domain.OperationID]bool)
	)

	for _, fc := range f.Categories {
		cat := domain.Category{ID: fc.ID, Name: fc.Name}
		for _, op := range fc.Operations {
			cat.Operations = append(cat.Operations, op.ID)
			if op.EndpointTemplate == "" && defined[op.ID] {
				continue
			}
			if strings.HasPrefix(op.EndpointTemplate, "/") {
				op.EndpointTemplate = base + op.EndpointTemplate
			}
			defined[op.ID] = true
			operations = append(operations, op)
		}
		categories = append(categories, cat)
	}

	return New(categories, operations)
}

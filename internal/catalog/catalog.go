// Package catalog holds the read-only registry of lookup operations and
// the categories used to browse them.
package catalog

import (
	"fmt"

	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/go-playground/validator/v10"
)

// MaxIDBytes bounds operation and category ids. Ids travel behind a short
// prefix in callback payloads, which the chat transport caps at 64 bytes.
const MaxIDBytes = 56

var validate = validator.New()

// Catalog is an immutable registry of operations. It is safe for concurrent
// use because nothing mutates it after New returns.
type Catalog struct {
	operations map[domain.OperationID]*domain.Operation
	categories []domain.Category
}

// New validates the given categories and operations and builds a catalog.
// Operations are assigned to the first category that lists them.
func New(categories []domain.Category, operations []domain.Operation) (*Catalog, error) {
	c := &Catalog{
		operations: make(map[domain.OperationID]*domain.Operation, len(operations)),
		categories: make([]domain.Category, 0, len(categories)),
	}

	for i := range operations {
		op := operations[i]
		if err := validateOperation(&op); err != nil {
			return nil, err
		}
		if _, exists := c.operations[op.ID]; exists {
			return nil, &domain.CatalogError{Entry: string(op.ID), Reason: "duplicate operation id"}
		}
		if op.Glyph == "" {
			op.Glyph = domain.DefaultGlyph
		}
		op.ParamPrompts = append([]string(nil), op.ParamPrompts...)
		c.operations[op.ID] = &op
	}

	seen := make(map[domain.CategoryID]bool, len(categories))
	for _, cat := range categories {
		if err := validate.Struct(cat); err != nil {
			return nil, &domain.CatalogError{Entry: string(cat.ID), Reason: err.Error()}
		}
		if seen[cat.ID] {
			return nil, &domain.CatalogError{Entry: string(cat.ID), Reason: "duplicate category id"}
		}
		seen[cat.ID] = true
		if len(cat.ID) > MaxIDBytes {
			return nil, &domain.CatalogError{Entry: string(cat.ID), Reason: "category id too long"}
		}

		for _, id := range cat.Operations {
			op, ok := c.operations[id]
			if !ok {
				return nil, &domain.CatalogError{
					Entry:  string(cat.ID),
					Reason: fmt.Sprintf("references unknown operation %q", id),
				}
			}
			if op.Category == "" {
				op.Category = cat.ID
			}
		}

		cat.Operations = append([]domain.OperationID(nil), cat.Operations...)
		c.categories = append(c.categories, cat)
	}

	return c, nil
}

func validateOperation(op *domain.Operation) error {
	if err := validate.Struct(op); err != nil {
		return &domain.CatalogError{Entry: string(op.ID), Reason: err.Error()}
	}
	if got, want := op.PlaceholderCount(), op.ParamCount(); got != want {
		return &domain.CatalogError{
			Entry:  string(op.ID),
			Reason: fmt.Sprintf("endpoint has %d placeholders but %d prompts", got, want),
		}
	}
	if len(op.ID) > MaxIDBytes {
		return &domain.CatalogError{Entry: string(op.ID), Reason: "operation id too long"}
	}
	return nil
}

// Lookup returns the operation with the given id
func (c *Catalog) Lookup(id domain.OperationID) (*domain.Operation, error) {
	op, ok := c.operations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOperation, id)
	}
	return op, nil
}

// Categories returns the categories in display order
func (c *Catalog) Categories() []domain.Category {
	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category returns the category with the given id
func (c *Catalog) Category(id domain.CategoryID) (domain.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return domain.Category{}, false
}

// OperationsIn returns the operations of a category in display order
func (c *Catalog) OperationsIn(id domain.CategoryID) []*domain.Operation {
	cat, ok := c.Category(id)
	if !ok {
		return nil
	}

	ops := make([]*domain.Operation, 0, len(cat.Operations))
	for _, opID := range cat.Operations {
		ops = append(ops, c.operations[opID])
	}
	return ops
}

// Len returns the number of operations
func (c *Catalog) Len() int {
	return len(c.operations)
}

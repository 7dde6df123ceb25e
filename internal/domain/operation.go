package domain

import "strings"

// Placeholder marks one positional argument slot in an endpoint template.
const Placeholder = "{}"

// DefaultGlyph decorates operations that do not declare their own.
const DefaultGlyph = "🔍"

// OperationID identifies a catalog entry
type OperationID string

// CategoryID identifies a browsing category
type CategoryID string

// Operation is one named lookup resolving to a single upstream HTTP GET
type Operation struct {
	ID               OperationID `json:"id" yaml:"id" validate:"required"`
	Name             string      `json:"name" yaml:"name" validate:"required,max=64"`
	EndpointTemplate string      `json:"-" yaml:"endpoint" validate:"required,startswith=http"`
	ParamPrompts     []string    `json:"params" yaml:"params" validate:"dive,required"`
	Category         CategoryID  `json:"category" yaml:"-"`
	Glyph            string      `json:"glyph" yaml:"glyph"`
}

// ParamCount returns the number of arguments the operation needs
func (o *Operation) ParamCount() int {
	return len(o.ParamPrompts)
}

// PlaceholderCount returns the number of positional slots in the endpoint template
func (o *Operation) PlaceholderCount() int {
	return strings.Count(o.EndpointTemplate, Placeholder)
}

// Label returns the button label for the operation
func (o *Operation) Label() string {
	glyph := o.Glyph
	if glyph == "" {
		glyph = DefaultGlyph
	}
	return glyph + " " + o.Name
}

// Category groups operations for browsing
type Category struct {
	ID         CategoryID    `json:"id" yaml:"id" validate:"required"`
	Name       string        `json:"name" yaml:"name" validate:"required"`
	Operations []OperationID `json:"operations" yaml:"-" validate:"required,min=1"`
}

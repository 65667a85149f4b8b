// Package schema provides declarative input schemas for tools and a generic
// validator that interprets them. Schemas are data, not code: each tool declares
// an ordered set of named parameters and the validator applies the same rules
// to all of them.
package schema

import (
	"github.com/webscout/webscout/pkg/types"
)

// Kind is the primitive kind of a parameter.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindObject Kind = "object"

	// KindEnum is a string constrained to a fixed set of values.
	KindEnum Kind = "enum"
)

// Param declares a single named input parameter.
type Param struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool

	// Minimum and Maximum bound numeric parameters inclusively.
	Minimum *float64
	Maximum *float64

	// Enum lists the accepted values for KindEnum parameters.
	Enum []string

	// Default is applied when an optional parameter is absent from the input.
	Default any
}

// InputSchema is an ordered set of parameter declarations.
// The order is the declaration order and is preserved on the wire.
type InputSchema struct {
	Params []Param
}

// Float returns a pointer to v, for use in Minimum/Maximum declarations.
func Float(v float64) *float64 {
	return &v
}

// Wire converts the schema to its JSON-schema wire representation.
func (s InputSchema) Wire() types.ToolInputSchema {
	properties := make(map[string]any, len(s.Params))
	var required []string

	for _, p := range s.Params {
		prop := map[string]any{}
		switch p.Kind {
		case KindEnum:
			prop["type"] = "string"
			prop["enum"] = p.Enum
		default:
			prop["type"] = string(p.Kind)
		}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Minimum != nil {
			prop["minimum"] = *p.Minimum
		}
		if p.Maximum != nil {
			prop["maximum"] = *p.Maximum
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	return types.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

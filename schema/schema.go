// Package schema builds JSON Schema documents for tool parameter
// declarations, such as the raw input schemas MCP tools advertise.
//
// Schemas are constructed programmatically and validated at build time,
// so a malformed constraint fails where the tool is declared rather than
// when a client first calls it:
//
//	params := schema.Object().
//		Field("query", schema.String().Desc("The search query").Required()).
//		Field("num", schema.Int().Desc("Result cap").Min(1).Max(10)).
//		MustBuild()
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Builder is implemented by every schema builder in this package.
type Builder interface {
	// Build serializes the schema, validating constraints first.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error. Intended for
	// package-level tool declarations where a bad schema is a bug.
	MustBuild() json.RawMessage

	node() *node
	isRequired() bool
}

// node is the serialized form of one schema element.
type node struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`

	Pattern string `json:"pattern,omitempty"`

	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	Properties map[string]*node `json:"properties,omitempty"`
	Required   []string         `json:"required,omitempty"`
}

// ErrInvalidSchema is wrapped by every build-time validation failure.
var ErrInvalidSchema = errors.New("invalid schema")

func (n *node) validate() error {
	switch n.Type {
	case "string":
		if n.Pattern != "" {
			if _, err := regexp.Compile(n.Pattern); err != nil {
				return fmt.Errorf("%w: pattern %q: %v", ErrInvalidSchema, n.Pattern, err)
			}
		}
	case "integer", "number":
		if n.Minimum != nil && n.Maximum != nil && *n.Minimum > *n.Maximum {
			return fmt.Errorf("%w: minimum %v exceeds maximum %v", ErrInvalidSchema, *n.Minimum, *n.Maximum)
		}
	case "object":
		for name, prop := range n.Properties {
			if err := prop.validate(); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}
	}
	return nil
}

func (n *node) build() (json.RawMessage, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

func mustBuild(n *node) json.RawMessage {
	data, err := n.build()
	if err != nil {
		panic(err)
	}
	return data
}

func ptr[T any](v T) *T {
	return &v
}

package schema

import "encoding/json"

// Object creates an object schema builder. Fields are added with Field;
// builders marked Required land in the object's required list in
// declaration order.
func Object() *ObjectBuilder {
	return &ObjectBuilder{n: &node{
		Type:       "object",
		Properties: make(map[string]*node),
	}}
}

// ObjectBuilder constructs object schemas.
type ObjectBuilder struct {
	n        *node
	required bool
}

// Desc sets the description of the object itself.
func (b *ObjectBuilder) Desc(description string) *ObjectBuilder {
	b.n.Description = description
	return b
}

// Field adds a named property. If the field's builder is marked
// Required, the name is appended to the object's required list.
func (b *ObjectBuilder) Field(name string, field Builder) *ObjectBuilder {
	b.n.Properties[name] = field.node()
	if field.isRequired() {
		for _, r := range b.n.Required {
			if r == name {
				return b
			}
		}
		b.n.Required = append(b.n.Required, name)
	}
	return b
}

// Required marks this object as required when nested in another object.
func (b *ObjectBuilder) Required() *ObjectBuilder {
	b.required = true
	return b
}

// Build serializes the schema, validating constraints first.
func (b *ObjectBuilder) Build() (json.RawMessage, error) { return b.n.build() }

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() json.RawMessage { return mustBuild(b.n) }

func (b *ObjectBuilder) node() *node      { return b.n }
func (b *ObjectBuilder) isRequired() bool { return b.required }

// String creates a string schema builder.
func String() *StringBuilder {
	return &StringBuilder{n: &node{Type: "string"}}
}

// StringBuilder constructs string schemas.
type StringBuilder struct {
	n        *node
	required bool
}

// Desc sets the description.
func (b *StringBuilder) Desc(description string) *StringBuilder {
	b.n.Description = description
	return b
}

// Enum restricts the value to one of the given options.
func (b *StringBuilder) Enum(values ...string) *StringBuilder {
	b.n.Enum = make([]any, len(values))
	for i, v := range values {
		b.n.Enum[i] = v
	}
	return b
}

// Pattern sets a regular expression the value must match. The pattern
// is compiled at build time; an invalid pattern fails Build.
func (b *StringBuilder) Pattern(regex string) *StringBuilder {
	b.n.Pattern = regex
	return b
}

// Default sets the default value.
func (b *StringBuilder) Default(value string) *StringBuilder {
	b.n.Default = value
	return b
}

// Required marks this field as required within its object.
func (b *StringBuilder) Required() *StringBuilder {
	b.required = true
	return b
}

// Build serializes the schema, validating constraints first.
func (b *StringBuilder) Build() (json.RawMessage, error) { return b.n.build() }

// MustBuild is like Build but panics on error.
func (b *StringBuilder) MustBuild() json.RawMessage { return mustBuild(b.n) }

func (b *StringBuilder) node() *node      { return b.n }
func (b *StringBuilder) isRequired() bool { return b.required }

// Int creates an integer schema builder.
func Int() *IntBuilder {
	return &IntBuilder{n: &node{Type: "integer"}}
}

// IntBuilder constructs integer schemas.
type IntBuilder struct {
	n        *node
	required bool
}

// Desc sets the description.
func (b *IntBuilder) Desc(description string) *IntBuilder {
	b.n.Description = description
	return b
}

// Min sets the minimum value (inclusive).
func (b *IntBuilder) Min(v int) *IntBuilder {
	b.n.Minimum = ptr(float64(v))
	return b
}

// Max sets the maximum value (inclusive).
func (b *IntBuilder) Max(v int) *IntBuilder {
	b.n.Maximum = ptr(float64(v))
	return b
}

// Default sets the default value.
func (b *IntBuilder) Default(value int) *IntBuilder {
	b.n.Default = value
	return b
}

// Required marks this field as required within its object.
func (b *IntBuilder) Required() *IntBuilder {
	b.required = true
	return b
}

// Build serializes the schema, validating constraints first.
func (b *IntBuilder) Build() (json.RawMessage, error) { return b.n.build() }

// MustBuild is like Build but panics on error.
func (b *IntBuilder) MustBuild() json.RawMessage { return mustBuild(b.n) }

func (b *IntBuilder) node() *node      { return b.n }
func (b *IntBuilder) isRequired() bool { return b.required }

// Number creates a number (float) schema builder.
func Number() *NumberBuilder {
	return &NumberBuilder{n: &node{Type: "number"}}
}

// NumberBuilder constructs number schemas.
type NumberBuilder struct {
	n        *node
	required bool
}

// Desc sets the description.
func (b *NumberBuilder) Desc(description string) *NumberBuilder {
	b.n.Description = description
	return b
}

// Min sets the minimum value (inclusive).
func (b *NumberBuilder) Min(v float64) *NumberBuilder {
	b.n.Minimum = ptr(v)
	return b
}

// Max sets the maximum value (inclusive).
func (b *NumberBuilder) Max(v float64) *NumberBuilder {
	b.n.Maximum = ptr(v)
	return b
}

// Default sets the default value.
func (b *NumberBuilder) Default(value float64) *NumberBuilder {
	b.n.Default = value
	return b
}

// Required marks this field as required within its object.
func (b *NumberBuilder) Required() *NumberBuilder {
	b.required = true
	return b
}

// Build serializes the schema, validating constraints first.
func (b *NumberBuilder) Build() (json.RawMessage, error) { return b.n.build() }

// MustBuild is like Build but panics on error.
func (b *NumberBuilder) MustBuild() json.RawMessage { return mustBuild(b.n) }

func (b *NumberBuilder) node() *node      { return b.n }
func (b *NumberBuilder) isRequired() bool { return b.required }

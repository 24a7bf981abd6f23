// Package schema holds the field contract for each document type. The prompt
// listing, the example JSON and the post-parse validator are all generated
// from these definitions.
package schema

import (
	"docextract/internal/domain"
)

// Kind is the semantic type of a field.
type Kind string

const (
	KindString     Kind = "string"
	KindDate       Kind = "date"
	KindMoney      Kind = "money"
	KindQuantity   Kind = "quantity"
	KindNumber     Kind = "number"
	KindPercentage Kind = "percentage"
	KindObject     Kind = "object"
	KindArray      Kind = "array"
)

// Field is one named entry in a document's schema. Fields is set for
// KindObject (the object's properties) and KindArray (the item properties).
type Field struct {
	Name    string
	Kind    Kind
	Hint    string
	Example any
	Fields  []Field
	Address bool
}

// Definition is the complete contract for one document type.
type Definition struct {
	Type    domain.DocumentType
	Subject string // singular noun used in prompts, e.g. "invoice"
	Fields  []Field
}

// Article returns "a" or "an" for Subject.
func (d *Definition) Article() string {
	if d.Subject == "" {
		return "a"
	}
	switch d.Subject[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	default:
		return "a"
	}
}

// FieldNames returns the top-level field names in order.
func (d *Definition) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for i := range d.Fields {
		names = append(names, d.Fields[i].Name)
	}
	return names
}

// HasKind reports whether any field, at any depth, has kind k.
func (d *Definition) HasKind(k Kind) bool {
	return anyField(d.Fields, func(f *Field) bool { return f.Kind == k })
}

// HasAddress reports whether any field is an address object.
func (d *Definition) HasAddress() bool {
	return anyField(d.Fields, func(f *Field) bool { return f.Address })
}

// HasField reports whether a field with the given name exists at any depth.
func (d *Definition) HasField(name string) bool {
	return anyField(d.Fields, func(f *Field) bool { return f.Name == name })
}

func anyField(fields []Field, pred func(*Field) bool) bool {
	for i := range fields {
		if pred(&fields[i]) || anyField(fields[i].Fields, pred) {
			return true
		}
	}
	return false
}

// Paths flattens the schema into dotted column paths. Array fields produce
// a single "name[]" prefix for their item properties.
func (d *Definition) Paths() []string {
	var out []string
	walkPaths(d.Fields, "", &out)
	return out
}

func walkPaths(fields []Field, prefix string, out *[]string) {
	for i := range fields {
		f := &fields[i]
		switch f.Kind {
		case KindObject:
			walkPaths(f.Fields, prefix+f.Name+".", out)
		case KindArray:
			walkPaths(f.Fields, prefix+f.Name+"[].", out)
		default:
			*out = append(*out, prefix+f.Name)
		}
	}
}

var registry = map[domain.DocumentType]*Definition{}

func register(d *Definition) {
	registry[d.Type] = d
}

// Lookup returns the definition for t, falling back to the invoice definition
// for unknown types.
func Lookup(t domain.DocumentType) *Definition {
	if d, ok := registry[t]; ok {
		return d
	}
	return registry[domain.DocumentTypeInvoice]
}

// All returns every definition in SupportedDocumentTypes order.
func All() []*Definition {
	types := domain.SupportedDocumentTypes()
	out := make([]*Definition, 0, len(types))
	for _, t := range types {
		if d, ok := registry[t]; ok {
			out = append(out, d)
		}
	}
	return out
}

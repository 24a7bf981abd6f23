package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"docextract/internal/domain"
)

// JSONSchema renders the definition as a JSON Schema document. Every
// property is nullable and required; extra properties are allowed.
func (d *Definition) JSONSchema() map[string]any {
	root := objectSchema(d.Fields, false)
	root["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	root["title"] = d.Subject
	return root
}

func objectSchema(fields []Field, nullable bool) map[string]any {
	props := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for i := range fields {
		props[fields[i].Name] = fieldSchema(&fields[i])
		required = append(required, fields[i].Name)
	}
	s := map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
	if nullable {
		s["type"] = []string{"object", "null"}
	}
	return s
}

func fieldSchema(f *Field) map[string]any {
	var s map[string]any
	switch f.Kind {
	case KindObject:
		s = objectSchema(f.Fields, true)
	case KindArray:
		s = map[string]any{
			"type":  []string{"array", "null"},
			"items": objectSchema(f.Fields, false),
		}
	case KindMoney, KindNumber:
		s = map[string]any{"type": []string{"number", "null"}}
	case KindQuantity:
		s = map[string]any{"type": []string{"integer", "null"}}
	case KindPercentage:
		// Models often keep the percent sign.
		s = map[string]any{"type": []string{"number", "string", "null"}}
	default:
		s = map[string]any{"type": []string{"string", "null"}}
	}
	if f.Hint != "" {
		s["description"] = f.Hint
	}
	return s
}

// Validator checks parsed provider output against the compiled schemas.
// It reports structural drift as warnings; it never rejects a result.
type Validator struct {
	compiled map[domain.DocumentType]*jsonschema.Schema
}

// NewValidator compiles a schema for every registered definition.
func NewValidator() (*Validator, error) {
	v := &Validator{compiled: make(map[domain.DocumentType]*jsonschema.Schema, len(registry))}
	for _, d := range All() {
		raw, err := json.Marshal(d.JSONSchema())
		if err != nil {
			return nil, fmt.Errorf("marshaling %s schema: %w", d.Type, err)
		}
		url := string(d.Type) + ".json"
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("loading %s schema: %w", d.Type, err)
		}
		compiled, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compiling %s schema: %w", d.Type, err)
		}
		v.compiled[d.Type] = compiled
	}
	return v, nil
}

// Validate returns one warning per leaf violation, sorted, or nil when obj
// conforms. Unknown document types are checked against the invoice schema.
func (v *Validator) Validate(t domain.DocumentType, obj map[string]any) []string {
	if obj == nil {
		return nil
	}
	s, ok := v.compiled[Lookup(t).Type]
	if !ok {
		return nil
	}

	// Round-trip so the validator sees plain JSON values.
	raw, err := json.Marshal(obj)
	if err != nil {
		return []string{err.Error()}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return []string{err.Error()}
	}

	err = s.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	var warnings []string
	collectLeaves(verr, &warnings)
	sort.Strings(warnings)
	return warnings
}

func collectLeaves(e *jsonschema.ValidationError, out *[]string) {
	if len(e.Causes) == 0 {
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, loc+": "+e.Message)
		return
	}
	for _, c := range e.Causes {
		collectLeaves(c, out)
	}
}

package schema

import (
	"encoding/json"
	"strings"
)

const exampleIndent = "    "

// ExampleJSON renders a literal example object with every field of the
// definition, in schema order. Arrays show a single sample item.
func (d *Definition) ExampleJSON() string {
	var b strings.Builder
	writeObject(&b, d.Fields, 0)
	return b.String()
}

func writeObject(b *strings.Builder, fields []Field, depth int) {
	b.WriteString("{\n")
	for i := range fields {
		f := &fields[i]
		b.WriteString(strings.Repeat(exampleIndent, depth+1))
		b.WriteString(quote(f.Name))
		b.WriteString(": ")
		switch f.Kind {
		case KindObject:
			writeObject(b, f.Fields, depth+1)
		case KindArray:
			b.WriteString("[")
			writeObject(b, f.Fields, depth+1)
			b.WriteString("]")
		default:
			b.WriteString(literal(f.Example))
		}
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(exampleIndent, depth))
	b.WriteString("}")
}

func quote(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}

func literal(v any) string {
	if v == nil {
		return "null"
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(out)
}

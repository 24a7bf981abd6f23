// Package export renders extraction results side by side, one column per
// provider, as CSV or XLSX.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"docextract/internal/domain"
	"docextract/internal/schema"
)

// Table is a provider-by-field grid. Header[0] names the field column.
type Table struct {
	Header []string
	Rows   [][]string
}

// BuildTable flattens res into rows in schema order. Array items are expanded
// to the longest list any provider returned. Keys outside the schema follow the
// known fields of the object they appear in, in sorted order, and values whose
// shape does not match the schema get a row of their own.
func BuildTable(res *domain.ExtractionResult) Table {
	providers := res.Providers
	if len(providers) == 0 {
		for id := range res.Results {
			providers = append(providers, id)
		}
		sort.Strings(providers)
	}

	t := Table{Header: append([]string{"field"}, providers...)}

	status := []string{"status"}
	objs := make([]map[string]any, len(providers))
	for i, id := range providers {
		objs[i] = res.Results[id]
		status = append(status, string(res.Diagnostics[id].Status))
	}
	t.Rows = append(t.Rows, status)

	def := schema.Lookup(res.DocumentType)
	walk(&t, def.Fields, "", objs)
	return t
}

func walk(t *Table, fields []schema.Field, prefix string, objs []map[string]any) {
	for i := range fields {
		f := &fields[i]
		key := prefix + f.Name

		switch f.Kind {
		case schema.KindObject:
			if r, ok := mismatched(key, objs, f.Name, isObject); ok {
				t.Rows = append(t.Rows, r)
			}
			walk(t, f.Fields, key+".", children(objs, f.Name))
		case schema.KindArray:
			if r, ok := mismatched(key, objs, f.Name, isList); ok {
				t.Rows = append(t.Rows, r)
			}
			n := longest(objs, f.Name)
			if n == 0 {
				t.Rows = append(t.Rows, row(key, objs, f.Name))
				continue
			}
			for j := 0; j < n; j++ {
				itemKey := fmt.Sprintf("%s[%d]", key, j)
				if r, ok := loose(itemKey, objs, f.Name, j); ok {
					t.Rows = append(t.Rows, r)
				}
				walk(t, f.Fields, itemKey+".", items(objs, f.Name, j))
			}
		default:
			t.Rows = append(t.Rows, row(key, objs, f.Name))
		}
	}
	extras(t, fields, prefix, objs)
}

func extras(t *Table, fields []schema.Field, prefix string, objs []map[string]any) {
	seen := make(map[string]bool, len(fields))
	for i := range fields {
		seen[fields[i].Name] = true
	}
	var keys []string
	for _, obj := range objs {
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.Rows = append(t.Rows, row(prefix+k, objs, k))
	}
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// mismatched returns a row for non-null values of name that are not of the
// expected shape, or false when every provider matched.
func mismatched(key string, objs []map[string]any, name string, shape func(any) bool) ([]string, bool) {
	r := []string{key}
	found := false
	for _, obj := range objs {
		v := obj[name]
		if v != nil && !shape(v) {
			r = append(r, FormatValue(v))
			found = true
			continue
		}
		r = append(r, "")
	}
	return r, found
}

// loose returns a row for array items at index j that are not objects.
func loose(key string, objs []map[string]any, name string, j int) ([]string, bool) {
	r := []string{key}
	found := false
	for _, obj := range objs {
		list, _ := obj[name].([]any)
		if j < len(list) && list[j] != nil && !isObject(list[j]) {
			r = append(r, FormatValue(list[j]))
			found = true
			continue
		}
		r = append(r, "")
	}
	return r, found
}

func row(key string, objs []map[string]any, name string) []string {
	r := make([]string, 0, len(objs)+1)
	r = append(r, key)
	for _, obj := range objs {
		r = append(r, FormatValue(obj[name]))
	}
	return r
}

func children(objs []map[string]any, name string) []map[string]any {
	out := make([]map[string]any, len(objs))
	for i, obj := range objs {
		out[i], _ = obj[name].(map[string]any)
	}
	return out
}

func longest(objs []map[string]any, name string) int {
	n := 0
	for _, obj := range objs {
		if list, ok := obj[name].([]any); ok && len(list) > n {
			n = len(list)
		}
	}
	return n
}

func items(objs []map[string]any, name string, j int) []map[string]any {
	out := make([]map[string]any, len(objs))
	for i, obj := range objs {
		if list, ok := obj[name].([]any); ok && j < len(list) {
			out[i], _ = list[j].(map[string]any)
		}
	}
	return out
}

// FormatValue renders a decoded JSON value as cell text. Decimal literals are
// kept exactly as the provider wrote them.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	}
}

package prompt_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/domain"
	"docextract/internal/prompt"
	"docextract/internal/schema"
)

const sampleText = "ACME TEXTILES\nInvoice # INV-10482\nTotal $370.51"

func TestBuild_UnknownTypeMatchesInvoice(t *testing.T) {
	unknown := prompt.Build(domain.DocumentType("purchase_order"), sampleText)
	invoice := prompt.Build(domain.DocumentTypeInvoice, sampleText)
	assert.Equal(t, invoice, unknown)

	empty := prompt.Build("", sampleText)
	assert.Equal(t, invoice, empty)
}

func TestBuild_Deterministic(t *testing.T) {
	for _, dt := range domain.SupportedDocumentTypes() {
		assert.Equal(t, prompt.Build(dt, sampleText), prompt.Build(dt, sampleText))
	}
}

func TestBuild_SystemInstruction(t *testing.T) {
	p := prompt.Build(domain.DocumentTypeInvoice, sampleText)
	assert.True(t, strings.HasPrefix(p.System, "You are an invoice data extraction assistant."))
	assert.Contains(t, p.System, "Return ONLY valid JSON")
	assert.Contains(t, p.System, "must start with '{' and end with '}'")

	spec := prompt.Build(domain.DocumentTypeSpec, sampleText)
	assert.True(t, strings.HasPrefix(spec.System, "You are a specification data extraction assistant."))
}

func TestBuild_EmbedsTextVerbatim(t *testing.T) {
	p := prompt.Build(domain.DocumentTypeInvoice, sampleText)
	assert.Contains(t, p.User, "Text to analyze:\n"+sampleText+"\n")

	blank := prompt.Build(domain.DocumentTypeInvoice, "")
	assert.Contains(t, blank.User, "Text to analyze:\n\n")
}

func TestBuild_InvoiceInstructions(t *testing.T) {
	p := prompt.Build(domain.DocumentTypeInvoice, sampleText)
	for _, want := range []string{
		"Use null for any fields not found in the text",
		"- address_line_1: the first line of the address (or null if not found)",
		"no currency symbols",
		`"Shipping" vs "Freight" vs "Freight Charges"`,
		`"Net 30"`,
		`use "EA" as the unit`,
		"Do not include other texts or comments outside of the JSON format",
	} {
		assert.Contains(t, p.User, want)
	}
}

func TestBuild_SpecOmitsInapplicableInstructions(t *testing.T) {
	p := prompt.Build(domain.DocumentTypeSpec, sampleText)
	assert.NotContains(t, p.User, "For addresses")
	assert.NotContains(t, p.User, "For Terms")
	assert.NotContains(t, p.User, "no currency symbols")
}

// The field listing and the example object must name exactly the same keys.
func TestBuild_ListingMatchesExample(t *testing.T) {
	for _, dt := range domain.SupportedDocumentTypes() {
		t.Run(string(dt), func(t *testing.T) {
			def := schema.Lookup(dt)
			user := prompt.Build(dt, sampleText).User

			listed := listedNames(t, user)

			start := strings.LastIndex(user, "\n{")
			require.Greater(t, start, 0)
			var example map[string]any
			require.NoError(t, json.Unmarshal([]byte(user[start+1:]), &example))

			assert.ElementsMatch(t, keysOf(example), listed[1])

			for i := range def.Fields {
				f := def.Fields[i]
				if f.Address || len(f.Fields) == 0 {
					continue
				}
				nested := example[f.Name]
				if items, ok := nested.([]any); ok {
					require.Len(t, items, 1)
					nested = items[0]
				}
				obj, ok := nested.(map[string]any)
				require.True(t, ok, f.Name)
				assert.ElementsMatch(t, keysOf(obj), listed[2])
			}
		})
	}
}

// listedNames groups field names from "Fields to extract" by dash depth.
func listedNames(t *testing.T, user string) map[int][]string {
	t.Helper()
	start := strings.Index(user, "Fields to extract:\n")
	end := strings.Index(user, "\nReturn the data")
	require.True(t, start >= 0 && end > start)

	out := map[int][]string{}
	for _, line := range strings.Split(user[start:end], "\n")[1:] {
		if line == "" {
			continue
		}
		dashes := len(line) - len(strings.TrimLeft(line, "-"))
		name := strings.TrimSpace(strings.TrimLeft(line, "-"))
		name = name[:strings.Index(name, ":")]
		out[dashes] = append(out[dashes], name)
	}
	return out
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

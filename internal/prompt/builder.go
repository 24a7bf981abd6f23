// Package prompt renders the system instruction and user message sent to
// every completion provider.
package prompt

import (
	"fmt"
	"strings"

	"docextract/internal/domain"
	"docextract/internal/schema"
)

// Build returns the prompt pair for docType with text embedded verbatim.
// Unknown document types use the invoice templates. Output is deterministic.
func Build(docType domain.DocumentType, text string) domain.PromptPair {
	def := schema.Lookup(docType)
	return domain.PromptPair{
		System: SystemInstruction(def),
		User:   UserPrompt(def, text),
	}
}

// SystemInstruction returns the fixed instruction for def.
func SystemInstruction(def *schema.Definition) string {
	return fmt.Sprintf("You are %s %s data extraction assistant. "+
		"IMPORTANT: Return ONLY valid JSON with no preamble, no explanations, and no additional text. "+
		"The response must start with '{' and end with '}'.", def.Article(), def.Subject)
}

// UserPrompt renders the task statement, the document text, the numbered
// instructions, the field listing and the example object.
func UserPrompt(def *schema.Definition, text string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert at extracting information from %ss. "+
		"Analyze the following %s text and extract the requested information.\n\n", def.Subject, def.Subject)

	b.WriteString("Text to analyze:\n")
	b.WriteString(text)
	b.WriteString("\n\n")

	b.WriteString("Instructions:\n")
	for i, line := range instructions(def) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}

	b.WriteString("\nFields to extract:\n")
	writeListing(&b, def.Fields, 1)

	b.WriteString("\nReturn the data in the following JSON format, using exactly these keys and this nesting:\n")
	b.WriteString(def.ExampleJSON())
	return b.String()
}

func instructions(def *schema.Definition) []string {
	lines := []string{
		"Extract all the fields listed below",
		"Return the data in valid JSON format",
		"Use null for any fields not found in the text",
	}
	if def.HasAddress() {
		var addr strings.Builder
		addr.WriteString("For addresses, include an object with the following fields:")
		for _, f := range schema.AddressFields() {
			fmt.Fprintf(&addr, "\n    - %s: %s (or null if not found)", f.Name, f.Hint)
		}
		lines = append(lines, addr.String())
	}
	if def.HasKind(schema.KindMoney) {
		lines = append(lines, "For monetary values, include only the numerical amount, to two decimal places (no currency symbols)")
	}
	lines = append(lines, `Look for variations in field names (e.g., "Shipping" vs "Freight" vs "Freight Charges")`)
	if def.HasField("terms") {
		lines = append(lines, `For Terms, capture any payment terms format exactly as written (e.g., "Net 30", "2/10 Net 30", "Due on Receipt")`)
	}
	if def.HasField("units") {
		lines = append(lines, `If an item has no unit of measure, use "EA" as the unit`)
	}
	lines = append(lines, "Do not include other texts or comments outside of the JSON format")
	return lines
}

// writeListing emits one "- name: hint" line per field. Nested properties of
// arrays and non-address objects are listed with one extra dash per level;
// address properties are covered by the address instruction.
func writeListing(b *strings.Builder, fields []schema.Field, depth int) {
	dashes := strings.Repeat("-", depth)
	for i := range fields {
		f := &fields[i]
		if f.Hint != "" {
			fmt.Fprintf(b, "%s %s: %s\n", dashes, f.Name, f.Hint)
		} else {
			fmt.Fprintf(b, "%s %s:\n", dashes, f.Name)
		}
		if len(f.Fields) > 0 && !f.Address {
			writeListing(b, f.Fields, depth+1)
		}
	}
}

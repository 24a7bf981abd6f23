package schema

import (
	"encoding/json"

	"docextract/internal/domain"
)

func init() {
	register(invoiceDefinition())
	register(specDefinition())
	register(quoteDefinition())
	register(submittalDefinition())
}

// AddressFields are the six properties of every address sub-object.
func AddressFields() []Field {
	return []Field{
		{Name: "company_name", Kind: KindString, Hint: "the company name"},
		{Name: "address_line_1", Kind: KindString, Hint: "the first line of the address"},
		{Name: "address_line_2", Kind: KindString, Hint: "the second line of the address"},
		{Name: "city", Kind: KindString, Hint: "the city of the address"},
		{Name: "state", Kind: KindString, Hint: "the state of the address"},
		{Name: "zip", Kind: KindString, Hint: "the zip code of the address"},
	}
}

func address(name, hint string, example map[string]any) Field {
	fields := AddressFields()
	for i := range fields {
		fields[i].Example = example[fields[i].Name]
	}
	return Field{Name: name, Kind: KindObject, Hint: hint, Fields: fields, Address: true}
}

// money wraps a decimal literal so examples keep their two decimal places.
func money(s string) json.Number {
	return json.Number(s)
}

func lineItemFields() []Field {
	return []Field{
		{Name: "spec_tag", Kind: KindString, Hint: `Look for text that contains "Item" or "Spec" or "Tag", typically XX-### format, or similar`, Example: "FCH-002A.F3"},
		{Name: "description", Kind: KindString, Hint: "will typically describe a product or service, like 'decorative bed scarf @ King Guest Room'", Example: "Fabric for chair CH-002A"},
		{Name: "quantity", Kind: KindQuantity, Hint: "Look for numbers that represent a quantity, typically a whole number", Example: 32},
		{Name: "units", Kind: KindString, Hint: `Look for text that represents a unit of measure, typically 2 or 3 letter codes. If not found, use "EA" as the default unit.`, Example: "YD"},
		{Name: "overage", Kind: KindNumber, Hint: "Look for numbers that represent a quantity overage", Example: 1.4},
		{Name: "unit_price", Kind: KindMoney, Hint: "Look for numbers that represent a price per unit, typically a float with 2 decimal places", Example: money("9.12")},
		{Name: "discount", Kind: KindPercentage, Hint: "Look for numbers that represent a discount, typically a %", Example: nil},
		{Name: "extended_price", Kind: KindMoney, Hint: "Look for numbers that represent a total price, typically a float with 2 decimal places", Example: money("291.84")},
		{Name: "fob", Kind: KindString, Hint: "Look for text that represents a shipping term, typically a city, state, or country", Example: "North Carolina"},
	}
}

func invoiceDefinition() *Definition {
	return &Definition{
		Type:    domain.DocumentTypeInvoice,
		Subject: "invoice",
		Fields: []Field{
			{Name: "vendor_name", Kind: KindString, Hint: "Company or business name issuing the invoice", Example: "Acme Textiles Inc."},
			{Name: "invoice_date", Kind: KindDate, Hint: "Look for any date format associated with invoice date/issue date", Example: "03/14/2024"},
			{Name: "due_date", Kind: KindDate, Hint: "Payment due date in any format", Example: "04/13/2024"},
			{Name: "ship_date", Kind: KindDate, Hint: "Look for any date format associated with shipping date", Example: nil},
			{Name: "invoice_number", Kind: KindString, Hint: "Look for invoice #, reference number, or similar identifiers", Example: "INV-10482"},
			{Name: "vendor_order_number", Kind: KindString, Hint: "Look for SO#, Order #, or similar references", Example: "SO-55821"},
			{Name: "account_number", Kind: KindString, Hint: "Any customer or account reference number", Example: "C-20931"},
			{Name: "po_number", Kind: KindString, Hint: "Purchase order number reference", Example: "PO-7713"},
			{Name: "terms", Kind: KindString, Hint: "Payment terms in any format found", Example: "Net 30"},
			{Name: "banking_info", Kind: KindString, Hint: "Any bank account, routing numbers, or payment instructions", Example: nil},
			{Name: "currency", Kind: KindString, Hint: "Type of currency used (USD, EUR, etc.)", Example: "USD"},
			address("bill_to_address", "Complete billing address including company name if present", map[string]any{
				"company_name":   "Harbor View Hotel",
				"address_line_1": "1200 Shoreline Dr",
				"city":           "Charleston",
				"state":          "SC",
				"zip":            "29401",
			}),
			address("ship_to_address", "Complete shipping address including company name if present. If the ship to address includes Source Logistics, this is NOT the shipping address - leave null", map[string]any{
				"company_name":   "Harbor View Hotel",
				"address_line_1": "1200 Shoreline Dr",
				"address_line_2": "Receiving Dock B",
				"city":           "Charleston",
				"state":          "SC",
				"zip":            "29401",
			}),
			{Name: "invoice_items", Kind: KindArray, Fields: lineItemFields()},
			{Name: "subtotal", Kind: KindMoney, Hint: "Look for numbers that represent a subtotal, typically a float with 2 decimal places", Example: money("291.84")},
			{Name: "packaging_fee", Kind: KindMoney, Hint: "Any packaging, packing or handling charges", Example: money("15.00")},
			{Name: "freight", Kind: KindMoney, Hint: `Any shipping, freight, or delivery charges ("Shipping", "Freight", "Freight Charges")`, Example: money("42.50")},
			{Name: "sales_tax", Kind: KindMoney, Hint: "Tax amount applied", Example: money("21.17")},
			{Name: "sales_tax_rate", Kind: KindPercentage, Hint: "Tax rate applied, typically a %", Example: 6.25},
			{Name: "total", Kind: KindMoney, Hint: "Final total amount of the invoice", Example: money("370.51")},
			{Name: "prepayments_deposit", Kind: KindMoney, Hint: "Any advance payments, prepayments or deposits applied", Example: money("185.26")},
			{Name: "balance_due", Kind: KindMoney, Hint: "Remaining amount to be paid", Example: money("185.25")},
		},
	}
}

func specItemFields(tag, description string, quantity int) []Field {
	return []Field{
		{Name: "tag", Kind: KindString, Hint: "The specification tag, typically XX-### format (e.g. CH-002A)", Example: tag},
		{Name: "description", Kind: KindString, Hint: "Description of the specified product, including finish or material notes", Example: description},
		{Name: "quantity", Kind: KindQuantity, Hint: "Specified quantity, typically a whole number", Example: quantity},
	}
}

func specDefinition() *Definition {
	return &Definition{
		Type:    domain.DocumentTypeSpec,
		Subject: "specification",
		Fields:  specItemFields("CH-002A", "Lounge chair upholstered in FCH-002A.F3", 12),
	}
}

func quoteDefinition() *Definition {
	return &Definition{
		Type:    domain.DocumentTypeQuote,
		Subject: "quote",
		Fields: []Field{
			{Name: "quote_number", Kind: KindString, Hint: "Look for quote #, quotation number, proposal number or similar identifiers", Example: "Q-2024-0117"},
			{Name: "quote_date", Kind: KindDate, Hint: "Date the quote was issued, in any format", Example: "01/17/2024"},
			{Name: "expiration_date", Kind: KindDate, Hint: `Date the quote expires; look for "Valid until", "Expires" or similar`, Example: "02/16/2024"},
			{Name: "customer_name", Kind: KindString, Hint: "Name of the customer the quote is addressed to", Example: "Harbor View Hotel"},
			address("customer_address", "Complete customer address including company name if present", map[string]any{
				"company_name":   "Harbor View Hotel",
				"address_line_1": "1200 Shoreline Dr",
				"city":           "Charleston",
				"state":          "SC",
				"zip":            "29401",
			}),
			{Name: "line_items", Kind: KindArray, Fields: lineItemFields()},
		},
	}
}

func submittalDefinition() *Definition {
	return &Definition{
		Type:    domain.DocumentTypeSubmittal,
		Subject: "submittal",
		Fields: []Field{
			{Name: "submittal_number", Kind: KindString, Hint: "Look for submittal #, transmittal number or similar identifiers", Example: "SUB-014"},
			{Name: "submittal_date", Kind: KindDate, Hint: "Date the submittal was issued, in any format", Example: "05/02/2024"},
			{Name: "spec_tag", Kind: KindObject, Hint: "The specification item this submittal covers", Fields: specItemFields("CH-002A", "Lounge chair upholstered in FCH-002A.F3", 12)},
		},
	}
}

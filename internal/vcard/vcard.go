// Package vcard reconstructs contact records from the flat tagged-line
// format Apple Address Book uses for its vCard export.
//
// The export is line oriented: `KEY:VALUE` lines, with each contact wrapped
// in BEGIN:VCARD / END:VCARD markers. Keys may carry `;`-separated
// parameters (TEL;type=WORK) and values may be `;`-separated component
// lists (N, ADR). The parser is a two-state machine that accumulates one
// card at a time and emits it as a value on END:VCARD.
//
// Real exports contain a handful of malformed lines; those are counted and
// skipped, never fatal.
package vcard

// recordSentinel is the BEGIN/END value that delimits a contact record.
const recordSentinel = "VCARD"

// Field is an unrecognized or ambiguous line preserved as-is.
type Field struct {
	Key   string
	Value string
}

// Address holds the structured components of an ADR line.
//
// Components are taken by fixed position in the raw `;` split: street=2,
// city=3, region=4, postal=5. Positions are stable even when leading
// components (PO box, extended address) are empty; parts are trimmed but
// never reindexed.
type Address struct {
	Street     string
	City       string
	Region     string
	PostalCode string
}

// Card is one reconstructed contact record.
type Card struct {
	// AddressBookID is the record's natural key, taken verbatim from the
	// X-ABUID line. Empty when the card carries no X-ABUID.
	AddressBookID string

	FirstName string
	LastName  string
	FullName  string

	// Phone is the raw TEL value. Strip non-digits before use.
	Phone string

	Email   string
	Address *Address

	// Extra collects lines the dispatch table does not recognize, plus N
	// values that do not split into exactly two parts (the intent of such
	// names is ambiguous in the source data, so the raw value is kept).
	Extra []Field
}

// Stats counts what the parser saw.
type Stats struct {
	Cards        int // completed BEGIN/END pairs
	SkippedLines int // lines with no colon (structural errors)
	IgnoredLines int // non-empty lines outside any BEGIN/END pair
}

// Book is the parse result: cards in encounter order plus an index by
// natural key. A card without an X-ABUID indexes under the empty string;
// later cards with the same key replace earlier ones in the index only.
type Book struct {
	Cards []Card
	ByID  map[string]Card
	Stats Stats
}

package vcard

import (
	"strings"
	"testing"
)

const sampleCard = `BEGIN:VCARD
VERSION:3.0
PRODID:-//Apple Inc.//Address Book 6.1//EN
N:Mills;Parker;;;
FN:Parker Mills
TEL;type=WORK;type=pref:(555) 123-4567
ADR;type=HOME;type=pref:;;1 Main St;Springfield;CA;90210;USA
EMAIL;type=INTERNET;type=WORK:parker@example.com
CATEGORIES:clients
X-ABUID:3CC9D4F6-E382-4BBB-B2FF:ABPerson
END:VCARD
`

func TestParseSingleCard(t *testing.T) {
	book, err := Parse(strings.NewReader(sampleCard))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if book.Stats.Cards != 1 {
		t.Fatalf("Cards = %d, want 1", book.Stats.Cards)
	}
	card := book.Cards[0]

	if got, want := card.AddressBookID, "3CC9D4F6-E382-4BBB-B2FF:ABPerson"; got != want {
		t.Errorf("AddressBookID = %q, want %q", got, want)
	}
	if card.LastName != "Mills" || card.FirstName != "Parker" {
		t.Errorf("name = %q %q, want Mills Parker", card.LastName, card.FirstName)
	}
	if got, want := card.FullName, "Parker Mills"; got != want {
		t.Errorf("FullName = %q, want %q", got, want)
	}
	if got, want := card.Phone, "(555) 123-4567"; got != want {
		t.Errorf("Phone = %q, want %q (raw, not yet stripped)", got, want)
	}
	if got, want := card.Email, "parker@example.com"; got != want {
		t.Errorf("Email = %q, want %q", got, want)
	}

	if card.Address == nil {
		t.Fatal("Address = nil, want parsed address")
	}
	if got, want := *card.Address, (Address{
		Street:     "1 Main St",
		City:       "Springfield",
		Region:     "CA",
		PostalCode: "90210",
	}); got != want {
		t.Errorf("Address = %+v, want %+v", got, want)
	}

	// VERSION, PRODID, CATEGORIES are discarded, not overflow.
	if len(card.Extra) != 0 {
		t.Errorf("Extra = %v, want empty", card.Extra)
	}

	if _, ok := book.ByID[card.AddressBookID]; !ok {
		t.Error("card not indexed by AddressBookID")
	}
}

func TestParseOneCardPerPair(t *testing.T) {
	input := `BEGIN:VCARD
X-ABUID:A
END:VCARD
BEGIN:VCARD
X-ABUID:B
END:VCARD
BEGIN:VCARD
X-ABUID:C
`
	book, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// The trailing unterminated card is never emitted.
	if book.Stats.Cards != 2 {
		t.Fatalf("Cards = %d, want 2", book.Stats.Cards)
	}
	if book.Cards[0].AddressBookID != "A" || book.Cards[1].AddressBookID != "B" {
		t.Errorf("card order = %q, %q; want A, B",
			book.Cards[0].AddressBookID, book.Cards[1].AddressBookID)
	}
}

func TestParseMissingNaturalKey(t *testing.T) {
	input := "BEGIN:VCARD\nFN:No Key\nEND:VCARD\n"
	book, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// A card without X-ABUID keys under the empty-string sentinel.
	card, ok := book.ByID[""]
	if !ok {
		t.Fatal("card without X-ABUID not indexed under empty key")
	}
	if card.FullName != "No Key" {
		t.Errorf("FullName = %q, want %q", card.FullName, "No Key")
	}
}

func TestParseMalformedLines(t *testing.T) {
	input := `garbage line with no delimiter
BEGIN:VCARD
X-ABUID:A
another malformed line
END:VCARD
stray line after the card: still parsed as key/value
`
	book, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if book.Stats.Cards != 1 {
		t.Errorf("Cards = %d, want 1", book.Stats.Cards)
	}
	if book.Stats.SkippedLines != 2 {
		t.Errorf("SkippedLines = %d, want 2", book.Stats.SkippedLines)
	}
	if book.Stats.IgnoredLines != 1 {
		t.Errorf("IgnoredLines = %d, want 1", book.Stats.IgnoredLines)
	}
}

func TestApplyFieldNameDispatch(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantLast  string
		wantFirst string
		wantExtra int
	}{
		{
			name:      "two parts",
			value:     "Mills;Parker",
			wantLast:  "Mills",
			wantFirst: "Parker",
		},
		{
			name:      "two parts with trailing empties",
			value:     "Mills;Parker;;;",
			wantLast:  "Mills",
			wantFirst: "Parker",
		},
		{
			name:      "three parts kept raw",
			value:     "van;der;Berg",
			wantExtra: 1,
		},
		{
			name:      "single part kept raw",
			value:     "Cher",
			wantExtra: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Card
			applyField(&c, "N", tt.value)

			if c.LastName != tt.wantLast || c.FirstName != tt.wantFirst {
				t.Errorf("name = %q %q, want %q %q",
					c.LastName, c.FirstName, tt.wantLast, tt.wantFirst)
			}
			if len(c.Extra) != tt.wantExtra {
				t.Errorf("len(Extra) = %d, want %d", len(c.Extra), tt.wantExtra)
			}
		})
	}
}

func TestSplitAddressFixedPositions(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Address
	}{
		{
			name:  "full address",
			value: "PO Box 1;Suite 2;1 Main St;Springfield;CA;90210;USA",
			want:  Address{Street: "1 Main St", City: "Springfield", Region: "CA", PostalCode: "90210"},
		},
		{
			// Empty leading components must not shift later ones.
			name:  "empty leading components",
			value: ";;1 Main St;Springfield;CA;90210;USA",
			want:  Address{Street: "1 Main St", City: "Springfield", Region: "CA", PostalCode: "90210"},
		},
		{
			name:  "short value",
			value: ";;1 Main St",
			want:  Address{Street: "1 Main St"},
		},
		{
			name:  "components trimmed",
			value: ";; 1 Main St ; Springfield ; CA ; 90210 ",
			want:  Address{Street: "1 Main St", City: "Springfield", Region: "CA", PostalCode: "90210"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAddress(tt.value)
			if *got != tt.want {
				t.Errorf("splitAddress(%q) = %+v, want %+v", tt.value, *got, tt.want)
			}
		})
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"TEL", "TEL"},
		{"TEL;type=WORK;type=pref", "TEL"},
		{";TEL;type=WORK", "TEL"},
		{"EMAIL;type=INTERNET", "EMAIL"},
		{";;", ""},
	}

	for _, tt := range tests {
		if got := keyName(tt.key); got != tt.want {
			t.Errorf("keyName(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestApplyFieldOverflow(t *testing.T) {
	var c Card
	applyField(&c, "X-SOCIALPROFILE;type=twitter", "https://twitter.com/example")

	if len(c.Extra) != 1 {
		t.Fatalf("len(Extra) = %d, want 1", len(c.Extra))
	}
	// Overflow keeps the full key, not just the dispatch token.
	if got, want := c.Extra[0].Key, "X-SOCIALPROFILE;type=twitter"; got != want {
		t.Errorf("Extra key = %q, want %q", got, want)
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"FN:Parker Mills", "FN", "Parker Mills", true},
		{" FN : Parker Mills ", "FN", "Parker Mills", true},
		{"X-ABUID:ABC:ABPerson", "X-ABUID", "ABC:ABPerson", true},
		{"no delimiter here", "", "", false},
		{":leading colon", "", "leading colon", true},
	}

	for _, tt := range tests {
		key, value, ok := splitLine(tt.line)
		if key != tt.wantKey || value != tt.wantValue || ok != tt.wantOK {
			t.Errorf("splitLine(%q) = %q, %q, %v; want %q, %q, %v",
				tt.line, key, value, ok, tt.wantKey, tt.wantValue, tt.wantOK)
		}
	}
}

package vcard

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// parser state machine states.
type state int

const (
	stateIdle state = iota
	stateBuilding
)

// Parse reads a tagged-line contact export and reconstructs its cards.
//
// The only returned error is a read failure on r; malformed content is
// handled per line (counted in Stats) and never aborts the parse.
func Parse(r io.Reader) (*Book, error) {
	book := &Book{ByID: make(map[string]Card)}

	st := stateIdle
	var current Card

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := splitLine(line)
		if !ok {
			// Structural error: no colon. Skip and continue.
			book.Stats.SkippedLines++
			continue
		}

		switch {
		case key == "BEGIN" && value == recordSentinel:
			// A BEGIN while already building discards the partial card,
			// matching how the source treats unterminated records.
			current = Card{}
			st = stateBuilding

		case key == "END" && value == recordSentinel && st == stateBuilding:
			book.Cards = append(book.Cards, current)
			book.ByID[current.AddressBookID] = current
			book.Stats.Cards++
			current = Card{}
			st = stateIdle

		case st == stateBuilding:
			applyField(&current, key, value)

		default:
			book.Stats.IgnoredLines++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read address book: %w", err)
	}

	return book, nil
}

// splitLine splits a line into key and value at the first colon.
// Both sides are trimmed. ok is false when the line has no colon.
func splitLine(line string) (key, value string, ok bool) {
	i := strings.Index(line, ":")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

// applyField dispatches one KEY:VALUE line into the card being built.
// The first matching rule wins.
func applyField(c *Card, key, value string) {
	name := keyName(key)

	switch name {
	case "X-ABUID":
		// Natural key, kept verbatim (including any :ABPerson suffix).
		c.AddressBookID = value
		return
	case "VERSION", "PRODID", "CATEGORIES":
		// Parsed but discarded.
		return
	case "N":
		if last, first, ok := splitName(value); ok {
			c.LastName = last
			c.FirstName = first
		} else {
			c.Extra = append(c.Extra, Field{Key: name, Value: value})
		}
		return
	case "FN":
		c.FullName = value
		return
	}

	switch {
	case strings.HasPrefix(name, "TEL"):
		c.Phone = value
	case strings.HasPrefix(name, "ADR"):
		c.Address = splitAddress(value)
	case strings.HasPrefix(name, "EMAIL"):
		c.Email = strings.TrimSpace(value)
	default:
		c.Extra = append(c.Extra, Field{Key: key, Value: value})
	}
}

// keyName returns the leading non-empty token of a `;`-parameterized key.
// "TEL;type=WORK;type=pref" dispatches as "TEL".
func keyName(key string) string {
	if !strings.Contains(key, ";") {
		return key
	}
	for _, part := range strings.Split(key, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			return part
		}
	}
	return ""
}

// splitName splits an N value. ok is true only when the value has exactly
// two non-empty components: family name first, given name second.
func splitName(value string) (last, first string, ok bool) {
	var parts []string
	for _, p := range strings.Split(value, ";") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// splitAddress resolves ADR components by fixed position in the raw split.
func splitAddress(value string) *Address {
	parts := strings.Split(value, ";")
	return &Address{
		Street:     component(parts, 2),
		City:       component(parts, 3),
		Region:     component(parts, 4),
		PostalCode: component(parts, 5),
	}
}

func component(parts []string, i int) string {
	if i >= len(parts) {
		return ""
	}
	return strings.TrimSpace(parts[i])
}

package migrate

// convert.go provides conversions from decoded source fields to statement
// values.
//
// Absence is uniform across all conversions: a missing, empty, or zero
// source field becomes an explicit NULL, never an empty-string literal.
// Zero counts as absent because the source format does not distinguish an
// unset numeric field from one stored as 0.

import (
	"math"
	"strconv"
	"strings"

	"github.com/parkermills/iBizToMySQL/internal/plist"
)

// Escape escapes a string for inclusion in a single-quoted MySQL literal.
func Escape(s string) string {
	if !strings.ContainsAny(s, "\\'\"\x00\n\r\x1a") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case 0x00:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case 0x1a:
			b.WriteString(`\Z`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Digits strips every non-digit character. Idempotent: stripping an
// already-stripped value is a no-op.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EpochMillis converts a seconds-since-epoch instant to milliseconds.
func EpochMillis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}

// TextValue returns a trimmed text value, NULL when empty.
func TextValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Null()
	}
	return Lit(s)
}

// conv projects one source field of a decoded record onto a Value.
type conv func(d plist.Dict, key string) Value

// convText reads a string field, trimmed, NULL when absent or empty.
func convText(d plist.Dict, key string) Value {
	s, ok := d.String(key)
	if !ok {
		return Null()
	}
	return TextValue(s)
}

// convMillis reads a seconds-since-epoch field and converts to
// milliseconds. Absent or zero instants become NULL, never 0.
func convMillis(d plist.Dict, key string) Value {
	f, ok := d.Float(key)
	if !ok || f == 0 {
		return Null()
	}
	return Lit(strconv.FormatInt(EpochMillis(f), 10))
}

// convInt reads a numeric field as an integer. Absent or zero becomes NULL.
func convInt(d plist.Dict, key string) Value {
	n, ok := d.Int(key)
	if !ok || n == 0 {
		return Null()
	}
	return Lit(strconv.FormatInt(n, 10))
}

// convFloat reads a numeric field. Absent or zero becomes NULL.
func convFloat(d plist.Dict, key string) Value {
	f, ok := d.Float(key)
	if !ok || f == 0 {
		return Null()
	}
	return Lit(strconv.FormatFloat(f, 'f', -1, 64))
}

// convFlag reads a boolean-ish field. Only a set, true value produces 1;
// everything else is NULL, matching how the source treats unset flags.
func convFlag(d plist.Dict, key string) Value {
	b, ok := d.Bool(key)
	if !ok || !b {
		return Null()
	}
	return Lit("1")
}

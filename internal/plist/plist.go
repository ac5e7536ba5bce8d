// Package plist reads iBiz property-list files into a generic nested
// dictionary tree.
//
// iBiz stores every record as an Apple XML plist: a dictionary of scalars,
// nested dictionaries, and arrays. Callers never assume a fixed schema
// depth; every accessor tolerates a missing or differently-typed leaf and
// reports absence instead of failing.
package plist

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"howett.net/plist"
)

// Dict is a decoded plist dictionary. Values are scalars, []any, or nested
// map[string]any trees as produced by the decoder.
type Dict map[string]any

// ReadFile decodes the plist file at path into a Dict.
// The root element must be a dictionary.
func ReadFile(path string) (Dict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plist: %w", err)
	}

	// iBiz files in the wild contain stray C0 control characters (0x10 has
	// been observed) that the XML decoder rejects. Strip them up front.
	data = stripControlChars(data)

	var root map[string]any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode plist %s: %w", path, err)
	}
	return Dict(root), nil
}

// stripControlChars removes C0 control bytes other than tab, LF, and CR.
func stripControlChars(data []byte) []byte {
	clean := false
	for _, b := range data {
		if isBadControl(b) {
			clean = true
			break
		}
	}
	if !clean {
		return data
	}

	out := make([]byte, 0, len(data))
	for _, b := range data {
		if isBadControl(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func isBadControl(b byte) bool {
	return b < 0x20 && b != '\t' && b != '\n' && b != '\r'
}

// String returns the string value at key.
// Returns ok=false when the key is absent or not a string.
func (d Dict) String(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float returns the numeric value at key as a float64.
// Plist integers decode as uint64 or int64 and reals as float64; numeric
// strings are parsed as a fallback since iBiz stores some amounts as text.
func (d Dict) Float(key string) (float64, bool) {
	v, ok := d[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the numeric value at key truncated to an int64.
func (d Dict) Int(key string) (int64, bool) {
	f, ok := d.Float(key)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// Bool returns the boolean value at key. Numeric values are treated as
// booleans the way the source data uses them (non-zero is true).
func (d Dict) Bool(key string) (bool, bool) {
	v, ok := d[key]
	if !ok {
		return false, false
	}
	if b, ok := v.(bool); ok {
		return b, true
	}
	if f, ok := d.Float(key); ok {
		return f != 0, true
	}
	return false, false
}

// Slice returns the array value at key.
func (d Dict) Slice(key string) ([]any, bool) {
	v, ok := d[key]
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// Dicts returns the array value at key as a slice of Dicts, skipping
// elements that are not dictionaries.
func (d Dict) Dicts(key string) []Dict {
	raw, ok := d.Slice(key)
	if !ok {
		return nil
	}
	out := make([]Dict, 0, len(raw))
	for _, el := range raw {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Dict(m))
		}
	}
	return out
}

// Strings returns the array value at key as strings, skipping non-string
// elements. Used for reference lists such as an invoice's projectIDs.
func (d Dict) Strings(key string) []string {
	raw, ok := d.Slice(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, el := range raw {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

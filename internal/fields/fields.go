// Package fields looks up labeled values in normalized form text.
package fields

import (
	"strings"

	"github.com/a3tai/candidate-form-extractor/internal/normalize"
)

// Key is a parenthesized field label such as "(State)".
type Key string

// Registration form labels, in report column order.
const (
	KeyCandidateName   Key = "(Candidate's Name)"
	KeyEmailAddress    Key = "(Email Address)"
	KeyState           Key = "(State)"
	KeyMobileNumber    Key = "(Mobile Number)"
	KeyEmergencyMobile Key = "(Emergency Mobile Number)"
)

// DefaultKeys returns the five registration labels in column order.
func DefaultKeys() []Key {
	return []Key{
		KeyCandidateName,
		KeyEmailAddress,
		KeyState,
		KeyMobileNumber,
		KeyEmergencyMobile,
	}
}

// Value is the result of looking up one key. Found is false when no part of
// the text contains the key.
type Value struct {
	Key   Key    `json:"key"`
	Text  string `json:"text"`
	Found bool   `json:"found"`
}

// String returns the value text, or "" when the key was not found.
func (v Value) String() string {
	if !v.Found {
		return ""
	}
	return v.Text
}

// Lookup returns the first '|'-separated part of text that contains key, with
// the key removed and surrounding whitespace trimmed. The key may appear
// anywhere inside the part, so a key that is a substring of a longer label
// matches that label too.
func Lookup(text string, key Key) Value {
	return lookup(strings.Split(text, normalize.Delimiter), key)
}

// Extract looks up every key in order.
func Extract(text string, keys []Key) []Value {
	parts := strings.Split(text, normalize.Delimiter)
	values := make([]Value, len(keys))
	for i, key := range keys {
		values[i] = lookup(parts, key)
	}
	return values
}

func lookup(parts []string, key Key) Value {
	k := string(key)
	for _, part := range parts {
		if strings.Contains(part, k) {
			return Value{
				Key:   key,
				Text:  strings.TrimSpace(strings.ReplaceAll(part, k, "")),
				Found: true,
			}
		}
	}
	return Value{Key: key}
}

// Complete reports whether every value was found.
func Complete(values []Value) bool {
	for _, v := range values {
		if !v.Found {
			return false
		}
	}
	return true
}

// Missing returns the keys whose values were not found.
func Missing(values []Value) []Key {
	var missing []Key
	for _, v := range values {
		if !v.Found {
			missing = append(missing, v.Key)
		}
	}
	return missing
}

// Package probe reads fields out of loosely-typed JSON structures.
//
// Vendor exports drift: the same concept appears under several
// historical key names. Every accessor takes an alias list tried in a
// fixed order, and the FIRST PRESENT key decides the outcome. If that
// key holds an unusable type the field counts as absent; later aliases
// are never consulted, and values are never merged across aliases.
package probe

import (
	"strconv"
)

// String returns the first present alias as a string.
func String(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		v, exists := m[k]
		if !exists {
			continue
		}
		s, ok := v.(string)
		return s, ok
	}
	return "", false
}

// Number returns the first present alias as a float64.
func Number(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, exists := m[k]
		if !exists {
			continue
		}
		f, ok := v.(float64)
		return f, ok
	}
	return 0, false
}

// Bool returns the first present alias as a bool.
func Bool(m map[string]any, keys ...string) (bool, bool) {
	for _, k := range keys {
		v, exists := m[k]
		if !exists {
			continue
		}
		b, ok := v.(bool)
		return b, ok
	}
	return false, false
}

// Slice returns the first present alias as a []any.
func Slice(m map[string]any, keys ...string) ([]any, bool) {
	for _, k := range keys {
		v, exists := m[k]
		if !exists {
			continue
		}
		s, ok := v.([]any)
		return s, ok
	}
	return nil, false
}

// Object returns the first present alias as a nested object.
func Object(m map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		v, exists := m[k]
		if !exists {
			continue
		}
		o, ok := v.(map[string]any)
		return o, ok
	}
	return nil, false
}

// Timestamp returns the first present alias rendered as a date string
// suitable for the recognizer chain: strings pass through untouched,
// numbers become their integer digits (epoch seconds or milliseconds).
func Timestamp(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		v, exists := m[k]
		if !exists {
			continue
		}
		switch t := v.(type) {
		case string:
			return t, true
		case float64:
			return strconv.FormatInt(int64(t), 10), true
		default:
			return "", false
		}
	}
	return "", false
}

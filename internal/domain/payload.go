package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Payload is a dynamic JSON object as received from third parties.
// Lookups fail closed: a missing or mistyped path yields ok=false,
// never a panic.
type Payload map[string]interface{}

// ParsePayload decodes a raw JSON body into a Payload
func ParsePayload(raw []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return p, nil
}

// Lookup traverses a dot-separated path ("lead.contact.email") and returns
// the value at that path. Nested objects are traversed; anything else along
// the way ends the lookup.
func (p Payload) Lookup(path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}

	var current interface{} = map[string]interface{}(p)
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// LookupString returns the value at path coerced to a string. Numbers and
// booleans are formatted; null and missing paths yield ok=false.
func (p Payload) LookupString(path string) (string, bool) {
	v, ok := p.Lookup(path)
	if !ok || v == nil {
		return "", false
	}

	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// LookupFloat returns the value at path coerced to a float64. Numeric
// strings are parsed.
func (p Payload) LookupFloat(path string) (float64, bool) {
	v, ok := p.Lookup(path)
	if !ok || v == nil {
		return 0, false
	}

	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

package domain

import (
	"testing"
)

func TestPayload_Lookup(t *testing.T) {
	p, err := ParsePayload([]byte(`{
		"email": "a@b.com",
		"lead": {
			"contact": {"name": "Ana"},
			"score": 42.5,
			"active": true,
			"empty": null
		}
	}`))
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}

	tests := []struct {
		name   string
		path   string
		want   interface{}
		wantOk bool
	}{
		{"top level", "email", "a@b.com", true},
		{"nested", "lead.contact.name", "Ana", true},
		{"number", "lead.score", 42.5, true},
		{"bool", "lead.active", true, true},
		{"null value present", "lead.empty", nil, true},
		{"missing path", "lead.contact.phone", nil, false},
		{"path through scalar", "email.domain", nil, false},
		{"empty path", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Lookup(tt.path)
			if ok != tt.wantOk {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.path, ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPayload_LookupString(t *testing.T) {
	p := Payload{
		"name":   "Ana",
		"value":  float64(1500),
		"rate":   2.5,
		"active": true,
		"tags":   []interface{}{"a"},
		"empty":  nil,
	}

	tests := []struct {
		name   string
		path   string
		want   string
		wantOk bool
	}{
		{"string", "name", "Ana", true},
		{"integer-valued number", "value", "1500", true},
		{"fractional number", "rate", "2.5", true},
		{"bool", "active", "true", true},
		{"array not coercible", "tags", "", false},
		{"null", "empty", "", false},
		{"missing", "nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.LookupString(tt.path)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("LookupString(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestPayload_LookupFloat(t *testing.T) {
	p := Payload{
		"value":  float64(1500),
		"priced": "99.90",
		"padded": " 10 ",
		"name":   "Ana",
	}

	tests := []struct {
		name   string
		path   string
		want   float64
		wantOk bool
	}{
		{"number", "value", 1500, true},
		{"numeric string", "priced", 99.90, true},
		{"padded numeric string", "padded", 10, true},
		{"non-numeric string", "name", 0, false},
		{"missing", "nope", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.LookupFloat(tt.path)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("LookupFloat(%q) = (%v, %v), want (%v, %v)", tt.path, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestParsePayload_Invalid(t *testing.T) {
	if _, err := ParsePayload([]byte(`not json`)); err == nil {
		t.Error("ParsePayload() should fail on invalid JSON")
	}
	if _, err := ParsePayload([]byte(`[1,2,3]`)); err == nil {
		t.Error("ParsePayload() should fail on non-object JSON")
	}
}

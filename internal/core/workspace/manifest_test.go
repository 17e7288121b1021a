package workspace

import (
	"testing"

	"ranger/internal/core/errors"
	"ranger/internal/engine/ranges"
)

func TestParseManifest_IDRanges(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"name": "Sales App",
		"idRanges": [
			{"from": 50000, "to": 50099},
			{"from": 60000, "to": 60049}
		]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "Sales App" {
		t.Errorf("expected name %q, got %q", "Sales App", m.Name)
	}
	want := []ranges.Range{{From: 50000, To: 50099}, {From: 60000, To: 60049}}
	if len(m.Ranges) != 2 || m.Ranges[0] != want[0] || m.Ranges[1] != want[1] {
		t.Errorf("unexpected ranges: %v", m.Ranges)
	}
}

func TestParseManifest_SingleIDRange(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name": "Tiny", "idRange": {"from": 50000, "to": 50009}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Ranges) != 1 || m.Ranges[0] != (ranges.Range{From: 50000, To: 50009}) {
		t.Errorf("single idRange must normalize to a list, got %v", m.Ranges)
	}
}

func TestParseManifest_NoRanges(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name": "Bare"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Ranges) != 0 {
		t.Errorf("expected no ranges, got %v", m.Ranges)
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing name", `{"idRanges": []}`},
		{"blank name", `{"name": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.IsCode(err, errors.CodeInvalidManifest) {
				t.Errorf("expected INVALID_MANIFEST, got %v", err)
			}
		})
	}
}

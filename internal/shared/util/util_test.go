package util

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNormalizePatternPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"src/Customers.al", "src/Customers.al"},
		{"./src/Customers.al", "src/Customers.al"},
		{"src\\Customers.al", "src/Customers.al"},
		{"  src/a//b  ", "src/a/b"},
		{".", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePatternPath(tt.input); got != tt.want {
			t.Errorf("NormalizePatternPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSortedStringKeys(t *testing.T) {
	m := map[string]int{"charlie": 3, "alpha": 1, "bravo": 2}
	want := []string{"alpha", "bravo", "charlie"}
	if got := SortedStringKeys(m); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedStringKeys = %v, want %v", got, want)
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "report.md")
	if err := WriteStringWithDirs(path, "content", 0o644); err != nil {
		t.Fatalf("WriteStringWithDirs failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("Unexpected content: %q", data)
	}
}

func TestLimiterBurst(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow(1) || !l.Allow(1) {
		t.Error("Burst capacity must admit the first two events")
	}
	if l.Allow(1) {
		t.Error("Third immediate event must be rejected")
	}
}

package internal

import (
	"os/exec"
	"path/filepath"
	"testing"
)

func TestExiftoolValue(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want string
		kind ValueKind
		ok   bool
	}{
		{"string", "2023:06:01 14:30:00", "2023:06:01 14:30:00", KindString, true},
		{"integral number", float64(400), "400", KindInt, true},
		{"fraction", 0.004, "0.004", KindFloat, true},
		{"bool", true, "true", KindString, true},
		{"list", []interface{}{float64(0), "x", nil}, "0, x", KindList, true},
		{"empty list", []interface{}{nil}, "", KindString, false},
		{"object", map[string]interface{}{"a": 1}, "", KindString, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := exiftoolValue(tt.raw)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if v.String() != tt.want || v.Kind() != tt.kind {
				t.Errorf("Expected %s %q, got %s %q", tt.kind, tt.want, v.Kind(), v.String())
			}
		})
	}
}

func TestExiftoolReader(t *testing.T) {
	if _, err := exec.LookPath("exiftool"); err != nil {
		t.Skip("exiftool not installed")
	}
	r, err := NewExiftoolReader()
	if err != nil {
		t.Fatalf("NewExiftoolReader failed: %v", err)
	}
	defer r.Close()

	if _, err := r.Read(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

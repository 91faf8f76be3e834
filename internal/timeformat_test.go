package internal

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeFormat_Valid(t *testing.T) {
	at := time.Date(2023, time.June, 1, 14, 30, 5, 0, time.UTC)

	tests := []struct {
		pattern string
		want    string
	}{
		{DefaultTimeFormat, "20230601_143005"},
		{"%Y-%m-%d_%H.%M.%S", "2023-06-01_14.30.05"},
		{"%F_%H%M", "2023-06-01_1430"},
		{"%Y%m%d-%j", "20230601-152"},
		{"%y%m%d %p", "230601 PM"},
		{"100%%_%Y", "100%_2023"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			f, err := ParseTimeFormat(tt.pattern)
			if err != nil {
				t.Fatalf("ParseTimeFormat(%q) failed: %v", tt.pattern, err)
			}
			if got := f.Format(at); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if f.Pattern() != tt.pattern {
				t.Errorf("Expected pattern %q, got %q", tt.pattern, f.Pattern())
			}
		})
	}
}

func TestParseTimeFormat_Invalid(t *testing.T) {
	for _, pattern := range []string{
		"",
		"%Y/%m/%d",
		`%Y\%m`,
		"%Y%m%d%",
		"%Y%Q",
		"%D", // renders 06/01/23
		"%U",
	} {
		t.Run(pattern, func(t *testing.T) {
			_, err := ParseTimeFormat(pattern)
			var fmtErr *InvalidTimeFormatError
			if !errors.As(err, &fmtErr) {
				t.Fatalf("Expected InvalidTimeFormatError for %q, got %v", pattern, err)
			}
		})
	}
}

func TestTimeFormat_RoundTrip(t *testing.T) {
	f, err := ParseTimeFormat(DefaultTimeFormat)
	if err != nil {
		t.Fatalf("ParseTimeFormat failed: %v", err)
	}

	at := time.Date(2023, time.June, 1, 14, 30, 0, 0, time.UTC)
	back, err := f.Parse(f.Format(at))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !back.Equal(at) {
		t.Errorf("Expected %v, got %v", at, back)
	}
}

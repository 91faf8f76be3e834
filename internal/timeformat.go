package internal

import (
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// DefaultTimeFormat sorts chronologically when used as a file name.
const DefaultTimeFormat = "%Y%m%d_%H%M%S"

// Directives accepted in a time format. Locale dependent or ambiguous
// week-based directives are left out so every run renders the same names.
var timeDirectives = map[byte]bool{
	'a': true, 'A': true, 'b': true, 'B': true, 'c': true, 'C': true,
	'd': true, 'D': true, 'e': true, 'F': true, 'H': true, 'I': true,
	'j': true, 'm': true, 'M': true, 'p': true, 'r': true, 'R': true,
	'S': true, 'T': true, 'u': true, 'w': true, 'y': true, 'Y': true,
	'z': true, 'Z': true, '%': true,
}

// TimeFormat is a validated strftime pattern.
type TimeFormat struct {
	pattern string
}

// ParseTimeFormat validates pattern up front so a bad --time-format is
// reported once before any file is touched.
func ParseTimeFormat(pattern string) (TimeFormat, error) {
	if pattern == "" {
		return TimeFormat{}, &InvalidTimeFormatError{Pattern: pattern, Reason: "empty pattern"}
	}
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '/' || c == '\\' || c == 0 {
			return TimeFormat{}, &InvalidTimeFormatError{Pattern: pattern, Reason: "file names cannot contain path separators"}
		}
		if c != '%' {
			continue
		}
		if i+1 >= len(pattern) {
			return TimeFormat{}, &InvalidTimeFormatError{Pattern: pattern, Reason: "dangling % at end of pattern"}
		}
		d := pattern[i+1]
		if !timeDirectives[d] {
			return TimeFormat{}, &InvalidTimeFormatError{Pattern: pattern, Reason: "unsupported directive %" + string(d)}
		}
		i++
	}

	// dry-test: the rendered name must not be empty or contain separators
	sample := strftime.Format(pattern, time.Date(2006, time.January, 2, 15, 4, 5, 0, time.UTC))
	if strings.TrimSpace(sample) == "" {
		return TimeFormat{}, &InvalidTimeFormatError{Pattern: pattern, Reason: "pattern renders an empty name"}
	}
	if strings.ContainsAny(sample, `/\`) {
		return TimeFormat{}, &InvalidTimeFormatError{Pattern: pattern, Reason: "pattern renders path separators"}
	}
	return TimeFormat{pattern: pattern}, nil
}

func (f TimeFormat) Pattern() string { return f.pattern }

// Format renders t in its own location.
func (f TimeFormat) Format(t time.Time) string {
	return strftime.Format(f.pattern, t)
}

// Parse reads back a string produced by Format. Names without a zone
// directive come back as UTC wall-clock fields.
func (f TimeFormat) Parse(s string) (time.Time, error) {
	return strftime.Parse(f.pattern, s)
}

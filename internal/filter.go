package internal

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Criterion requires tag Key to equal Value.
type Criterion struct {
	Key   string
	Value string
}

// ParseCriterion parses KEY=VALUE. The value may itself contain '='.
func ParseCriterion(arg string) (Criterion, error) {
	key, value, ok := strings.Cut(arg, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return Criterion{}, &InvalidFilterError{Arg: arg}
	}
	return Criterion{Key: key, Value: value}, nil
}

// Filter is a conjunction of criteria. The empty filter matches everything.
type Filter []Criterion

// ParseFilter parses every KEY=VALUE argument.
func ParseFilter(args []string) (Filter, error) {
	f := make(Filter, 0, len(args))
	for _, arg := range args {
		c, err := ParseCriterion(arg)
		if err != nil {
			return nil, err
		}
		f = append(f, c)
	}
	return f, nil
}

// Matches reports whether md has every criterion key with an equal value.
// Values are compared as strings: numbers in their decimal form, text in
// Unicode NFC with EXIF NUL padding removed.
func (f Filter) Matches(md *Metadata) bool {
	for _, c := range f {
		v, ok := md.Get(c.Key)
		if !ok {
			return false
		}
		if normalizeFilterValue(v.String()) != normalizeFilterValue(c.Value) {
			return false
		}
	}
	return true
}

func (f Filter) String() string {
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = c.Key + "=" + c.Value
	}
	return strings.Join(parts, " AND ")
}

func normalizeFilterValue(s string) string {
	return norm.NFC.String(strings.TrimRight(s, "\x00"))
}

package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindRational
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindRational:
		return "rational"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is a single metadata tag value. Readers convert whatever their
// backend produces into one of the variants so that comparison and
// formatting never deal with untyped data.
type Value struct {
	kind  ValueKind
	str   string
	num   int64
	den   int64
	float float64
	list  []Value
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }

func IntValue(i int64) Value { return Value{kind: KindInt, num: i} }

func FloatValue(f float64) Value { return Value{kind: KindFloat, float: f} }

// RationalValue holds num/den as found in EXIF RATIONAL and SRATIONAL tags.
func RationalValue(num, den int64) Value { return Value{kind: KindRational, num: num, den: den} }

func ListValue(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// NumberValue stores f as an int when it has no fractional part. JSON
// decoders (exiftool) hand every number over as float64.
func NumberValue(f float64) Value {
	if f == float64(int64(f)) {
		return IntValue(int64(f))
	}
	return FloatValue(f)
}

func (v Value) Kind() ValueKind { return v.kind }

// Text returns the raw string of a KindString value.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Int returns the value as an integer when it is integral.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.num, true
	case KindRational:
		if v.den != 0 && v.num%v.den == 0 {
			return v.num / v.den, true
		}
	case KindList:
		if len(v.list) > 0 {
			return v.list[0].Int()
		}
	}
	return 0, false
}

func (v Value) Items() []Value {
	if v.kind != KindList {
		return []Value{v}
	}
	return v.list
}

// String renders the value in its natural decimal form: integers without
// exponent, floats with the shortest exact representation, rationals as
// num/den (or just num when den is 1) and lists comma separated.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'f', -1, 64)
	case KindRational:
		if v.den == 1 {
			return strconv.FormatInt(v.num, 10)
		}
		return strconv.FormatInt(v.num, 10) + "/" + strconv.FormatInt(v.den, 10)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

package internal

import "testing"

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"string", StringValue("Canon"), "Canon"},
		{"int", IntValue(-3), "-3"},
		{"float", FloatValue(2.5), "2.5"},
		{"rational", RationalValue(1, 250), "1/250"},
		{"whole rational", RationalValue(72, 1), "72"},
		{"list", ListValue(IntValue(0), IntValue(2), IntValue(3), IntValue(1)), "0, 2, 3, 1"},
		{"number integral", NumberValue(400), "400"},
		{"number fractional", NumberValue(0.125), "0.125"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValueInt(t *testing.T) {
	tests := []struct {
		value  Value
		want   int64
		wantOK bool
	}{
		{IntValue(7), 7, true},
		{RationalValue(10, 5), 2, true},
		{RationalValue(1, 3), 0, false},
		{RationalValue(1, 0), 0, false},
		{ListValue(IntValue(-5), IntValue(0)), -5, true},
		{StringValue("5"), 0, false},
		{FloatValue(1.5), 0, false},
	}

	for _, tt := range tests {
		got, ok := tt.value.Int()
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("%v.Int(): expected (%d, %v), got (%d, %v)", tt.value, tt.want, tt.wantOK, got, ok)
		}
	}
}

func TestValueKindAndItems(t *testing.T) {
	if NumberValue(3).Kind() != KindInt {
		t.Errorf("Expected integral number to be an int, got %s", NumberValue(3).Kind())
	}
	if NumberValue(3.25).Kind() != KindFloat {
		t.Errorf("Expected fractional number to be a float, got %s", NumberValue(3.25).Kind())
	}

	single := StringValue("x")
	if items := single.Items(); len(items) != 1 || items[0].String() != "x" {
		t.Errorf("Expected a scalar to be its own single item, got %v", items)
	}

	src := []Value{IntValue(1), IntValue(2)}
	list := ListValue(src...)
	src[0] = IntValue(9)
	if list.Items()[0].String() != "1" {
		t.Error("Expected ListValue to copy its items")
	}

	if _, ok := IntValue(1).Text(); ok {
		t.Error("Expected Text to fail on an int value")
	}
}

package internal

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ShiftUnits are the accepted --modify-time units.
var ShiftUnits = []string{"weeks", "days", "hours", "minutes", "seconds"}

var shiftUnitDuration = map[string]time.Duration{
	"weeks":   7 * 24 * time.Hour,
	"days":    24 * time.Hour,
	"hours":   time.Hour,
	"minutes": time.Minute,
	"seconds": time.Second,
}

// TimeShift is a signed correction added to the absolute capture instant.
// Calendar units are fixed lengths (a day is 24h) so the shift never
// depends on the zone the result is displayed in.
type TimeShift struct {
	Unit   string
	Amount int64
}

// ParseTimeShift parses the UNIT VALUE pair of --modify-time.
func ParseTimeShift(unit, amount string) (TimeShift, error) {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if _, ok := shiftUnitDuration[unit]; !ok {
		return TimeShift{}, &InvalidShiftError{Unit: unit, Amount: amount, Reason: "unit must be one of " + strings.Join(ShiftUnits, "|")}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
	if err != nil {
		return TimeShift{}, &InvalidShiftError{Unit: unit, Amount: amount, Reason: "value must be an integer"}
	}
	// the shift must fit in a time.Duration
	if limit := math.MaxInt64 / int64(shiftUnitDuration[unit]); n > limit || n < -limit {
		return TimeShift{}, &InvalidShiftError{Unit: unit, Amount: amount, Reason: "value out of range (max " + strconv.FormatInt(limit, 10) + " " + unit + ")"}
	}
	return TimeShift{Unit: unit, Amount: n}, nil
}

// ParseTimeShiftArg parses the joined UNIT=VALUE form.
func ParseTimeShiftArg(arg string) (TimeShift, error) {
	unit, amount, ok := strings.Cut(arg, "=")
	if !ok {
		return TimeShift{}, &InvalidShiftError{Unit: arg, Reason: "expected UNIT=VALUE"}
	}
	return ParseTimeShift(unit, amount)
}

func (s TimeShift) Duration() time.Duration {
	return shiftUnitDuration[s.Unit] * time.Duration(s.Amount)
}

func (s TimeShift) IsZero() bool {
	return s.Amount == 0 || s.Unit == ""
}

func (s TimeShift) String() string {
	if s.IsZero() {
		return "none"
	}
	return strconv.FormatInt(s.Amount, 10) + " " + s.Unit
}

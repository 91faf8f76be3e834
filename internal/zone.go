package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numeric zone forms: +H, +HH, +HHMM, +HH:MM and minus variants. Minutes
// need a two digit hour so +200 is rejected rather than read as +2:00.
var numericZone = regexp.MustCompile(`^([+-])(?:(\d{2}):?(\d{2})|(\d{1,2}))$`)

// offset tag forms: numericZone plus the unsigned HH:MM and HH written by
// some cameras
var offsetTag = regexp.MustCompile(`^([+-]?)(?:(\d{2}):?(\d{2})|(\d{1,2}))$`)

// ParseZone parses a user supplied timezone: an IANA name ("Europe/Berlin",
// "UTC", "Local") or a numeric offset (+02, +0200, +02:00, -0530). Empty
// input returns a nil location.
func ParseZone(expr string) (*time.Location, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	if expr == "Z" || strings.EqualFold(expr, "utc") {
		return time.UTC, nil
	}
	if m := numericZone.FindStringSubmatch(expr); m != nil {
		loc, err := zoneMatch(m)
		if err != nil {
			return nil, &InvalidTimezoneError{Value: expr, Err: err}
		}
		return loc, nil
	}
	if expr[0] == '+' || expr[0] == '-' {
		return nil, &InvalidTimezoneError{Value: expr, Err: errors.New("expected +HH or +HHMM")}
	}
	loc, err := time.LoadLocation(expr)
	if err != nil {
		return nil, &InvalidTimezoneError{Value: expr, Err: err}
	}
	return loc, nil
}

// parseOffsetTag parses the EXIF OffsetTime* string forms.
func parseOffsetTag(s string) (*time.Location, bool) {
	s = strings.TrimSpace(s)
	if s == "Z" {
		return time.UTC, true
	}
	m := offsetTag.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	loc, err := zoneMatch(m)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// offsetHours builds a zone from the TIFF TimeZoneOffset tag (signed hours).
func offsetHours(h int64) (*time.Location, bool) {
	if h < -14 || h > 14 {
		return nil, false
	}
	return zoneFromSeconds(int(h) * 3600), true
}

// zoneMatch builds the zone from a numericZone or offsetTag match.
func zoneMatch(m []string) (*time.Location, error) {
	if m[4] != "" {
		return fixedZone(m[1], m[4], "")
	}
	return fixedZone(m[1], m[2], m[3])
}

func fixedZone(sign, hours, minutes string) (*time.Location, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return nil, err
	}
	m := 0
	if minutes != "" {
		if m, err = strconv.Atoi(minutes); err != nil {
			return nil, err
		}
	}
	if h > 14 || m > 59 {
		return nil, fmt.Errorf("offset %s%s:%02d out of range", sign, hours, m)
	}
	secs := h*3600 + m*60
	if sign == "-" {
		secs = -secs
	}
	return zoneFromSeconds(secs), nil
}

func zoneFromSeconds(secs int) *time.Location {
	if secs == 0 {
		return time.UTC
	}
	sign := '+'
	abs := secs
	if secs < 0 {
		sign = '-'
		abs = -secs
	}
	name := fmt.Sprintf("%c%02d%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, secs)
}

package internal

import (
	"strings"
	"time"
)

// Tag names shared by the goexif, exiftool and go-mp4 readers.
const (
	TagDateTimeOriginal    = "DateTimeOriginal"
	TagDateTimeDigitized   = "DateTimeDigitized"
	TagDateTime            = "DateTime"
	TagCreateDate          = "CreateDate"
	TagModifyDate          = "ModifyDate"
	TagMediaCreateDate     = "MediaCreateDate"
	TagTrackCreateDate     = "TrackCreateDate"
	TagOffsetTime          = "OffsetTime"
	TagOffsetTimeOriginal  = "OffsetTimeOriginal"
	TagOffsetTimeDigitized = "OffsetTimeDigitized"
	TagTimeZoneOffset      = "TimeZoneOffset"
	TagCreationTime        = "CreationTime"
	TagModificationTime    = "ModificationTime"
	TagDuration            = "Duration"
	TagMajorBrand          = "MajorBrand"
)

// captureKey pairs a capture-time tag with the offset tag written for it.
// Container tags are UTC by definition of the ISO-BMFF/QuickTime format.
type captureKey struct {
	tag       string
	offset    string
	container bool
}

var imageCaptureKeys = []captureKey{
	{tag: TagDateTimeOriginal, offset: TagOffsetTimeOriginal},
	{tag: TagDateTimeDigitized, offset: TagOffsetTimeDigitized},
	{tag: TagCreateDate, offset: TagOffsetTimeDigitized},
	{tag: TagDateTime, offset: TagOffsetTime},
	{tag: TagModifyDate, offset: TagOffsetTime},
}

var videoCaptureKeys = []captureKey{
	{tag: TagCreationTime, container: true},
	{tag: TagCreateDate, container: true},
	{tag: TagMediaCreateDate, container: true},
	{tag: TagTrackCreateDate, container: true},
	{tag: TagDateTimeOriginal, offset: TagOffsetTimeOriginal},
}

var offsetTagOrder = []string{TagOffsetTimeOriginal, TagOffsetTimeDigitized, TagOffsetTime}

var naiveLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"20060102150405",
}

var zonedLayouts = []string{
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05-0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05Z07:00",
}

// ZoneSource records where the source timezone of a Timestamp came from.
type ZoneSource int

const (
	ZoneIgnored   ZoneSource = iota // --ignore-timezone, wall clock read as UTC
	ZoneEmbedded                    // the capture-time value carried its own offset
	ZoneOffsetTag                   // an OffsetTime*/TimeZoneOffset tag
	ZoneContainer                   // video container time, UTC by definition
	ZoneFallback                    // the configured source timezone
)

func (z ZoneSource) String() string {
	switch z {
	case ZoneIgnored:
		return "ignored"
	case ZoneEmbedded:
		return "embedded"
	case ZoneOffsetTag:
		return "offset-tag"
	case ZoneContainer:
		return "container"
	case ZoneFallback:
		return "fallback"
	}
	return "unknown"
}

// Timestamp is an absolute capture instant plus the zone it is rendered in.
// It is a value type; adjustments return a new Timestamp.
type Timestamp struct {
	t      time.Time
	key    string
	source ZoneSource
}

// Time returns the instant in its display location.
func (ts Timestamp) Time() time.Time { return ts.t }

// Key is the metadata tag the time was read from.
func (ts Timestamp) Key() string { return ts.key }

func (ts Timestamp) ZoneSource() ZoneSource { return ts.source }

func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// Shift adds d to the absolute instant.
func (ts Timestamp) Shift(d time.Duration) Timestamp {
	ts.t = ts.t.Add(d)
	return ts
}

// In changes the display location; the instant is unchanged.
func (ts Timestamp) In(loc *time.Location) Timestamp {
	ts.t = ts.t.In(loc)
	return ts
}

func (ts Timestamp) Equal(other Timestamp) bool { return ts.t.Equal(other.t) }

func (ts Timestamp) String() string {
	return ts.t.Format("2006-01-02 15:04:05 -07:00")
}

// ResolveTimestamp derives the capture instant of md under cfg:
//
//  1. --ignore-timezone reads the wall clock as UTC;
//  2. otherwise an offset in the value itself wins;
//  3. video container times are UTC, whatever offset tags the file has;
//  4. an offset tag is used next;
//  5. anything else uses the configured source timezone.
//
// The time modification is then added to the instant and the result moved
// to the target timezone for rendering.
func ResolveTimestamp(md *Metadata, cfg *NamingConfig) (Timestamp, error) {
	keys := imageCaptureKeys
	if md.Kind == MediaVideo {
		keys = videoCaptureKeys
	}

	for _, ck := range keys {
		v, ok := md.Get(ck.tag)
		if !ok {
			continue
		}
		wall, zoned, ok := parseCaptureTime(firstText(v))
		if !ok {
			continue
		}

		ts := Timestamp{key: ck.tag}
		switch {
		case cfg.IgnoreTimezone():
			ts.t, ts.source = reinterpret(wall, time.UTC), ZoneIgnored
		case zoned:
			ts.t, ts.source = wall, ZoneEmbedded
		case ck.container:
			ts.t, ts.source = reinterpret(wall, time.UTC), ZoneContainer
		default:
			if loc, ok := lookupOffset(md, ck.offset); ok {
				ts.t, ts.source = reinterpret(wall, loc), ZoneOffsetTag
			} else {
				ts.t, ts.source = reinterpret(wall, cfg.SourceZone()), ZoneFallback
			}
		}

		ts = ts.Shift(cfg.Shift().Duration())
		if target := cfg.TargetZone(); target != nil {
			ts = ts.In(target)
		}
		return ts, nil
	}

	tags := make([]string, len(keys))
	for i, ck := range keys {
		tags[i] = ck.tag
	}
	return Timestamp{}, &NoTimestampError{Path: md.Path, Keys: tags}
}

func firstText(v Value) string {
	if s, ok := v.Text(); ok {
		return s
	}
	return v.Items()[0].String()
}

// parseCaptureTime reports the parsed time and whether the string carried
// its own zone. Zero dates written by cameras without a clock fail to parse.
func parseCaptureTime(s string) (time.Time, bool, bool) {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if s == "" {
		return time.Time{}, false, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, true
		}
	}
	return time.Time{}, false, false
}

func lookupOffset(md *Metadata, preferred string) (*time.Location, bool) {
	order := offsetTagOrder
	if preferred != "" {
		order = append([]string{preferred}, offsetTagOrder...)
	}
	for _, key := range order {
		v, ok := md.Get(key)
		if !ok {
			continue
		}
		if loc, ok := parseOffsetTag(firstText(v)); ok {
			return loc, true
		}
	}
	if v, ok := md.Get(TagTimeZoneOffset); ok {
		if h, ok := v.Int(); ok {
			return offsetHours(h)
		}
	}
	return nil, false
}

// reinterpret keeps the wall clock fields of t and attaches loc.
func reinterpret(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

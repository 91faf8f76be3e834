package internal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Extensions goexif can decode: JPEG APP1 segments and TIFF based files.
var exifExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jpe":  true,
	".tif":  true,
	".tiff": true,
	".dng":  true,
	".nef":  true,
	".cr2":  true,
	".arw":  true,
}

// goexif predates EXIF 2.31 and drops the offset tags while decoding, so
// they are loaded by an extra parser.
var exifOffsetFields = map[uint16]exif.FieldName{
	0x9010: exif.FieldName(TagOffsetTime),
	0x9011: exif.FieldName(TagOffsetTimeOriginal),
	0x9012: exif.FieldName(TagOffsetTimeDigitized),
}

var tiffOffsetFields = map[uint16]exif.FieldName{
	0x882a: exif.FieldName(TagTimeZoneOffset),
}

var registerOffsetParser sync.Once

type offsetParser struct{}

func (offsetParser) Parse(x *exif.Exif) error {
	if x.Tiff == nil || len(x.Tiff.Dirs) == 0 {
		return nil
	}
	x.LoadTags(x.Tiff.Dirs[0], tiffOffsetFields, false)

	ptr, err := x.Get(exif.ExifIFDPointer)
	if err != nil {
		return nil
	}
	offset, err := ptr.Int64(0)
	if err != nil {
		return nil
	}
	r := bytes.NewReader(x.Raw)
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil
	}
	dir, _, err := tiff.DecodeDir(r, x.Tiff.Order)
	if err != nil {
		// the standard parser already reported a broken sub-IFD
		return nil
	}
	x.LoadTags(dir, exifOffsetFields, false)
	return nil
}

// ExifReader reads EXIF tags from JPEG and TIFF files with goexif.
type ExifReader struct{}

func NewExifReader() *ExifReader {
	registerOffsetParser.Do(func() {
		exif.RegisterParsers(offsetParser{})
	})
	return &ExifReader{}
}

func (r *ExifReader) Read(path string) (*Metadata, error) {
	if !exifExtensions[strings.ToLower(filepath.Ext(path))] {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), ErrNoMetadata, err)
	}

	md := NewMetadata(path, MediaImage)
	if err := x.Walk(tagCollector{md: md}); err != nil {
		return nil, fmt.Errorf("walk exif tags of %s: %w", path, err)
	}
	if len(md.Tags) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoMetadata)
	}
	return md, nil
}

type tagCollector struct {
	md *Metadata
}

func (c tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	key := string(name)
	if strings.HasSuffix(key, "IFDPointer") || key == string(exif.MakerNote) {
		return nil
	}
	if v, ok := tiffValue(tag); ok {
		c.md.Set(key, v)
	}
	return nil
}

func tiffValue(tag *tiff.Tag) (Value, bool) {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return Value{}, false
		}
		return StringValue(strings.TrimSpace(s)), true
	case tiff.IntVal:
		return collectTiff(tag, func(i int) (Value, error) {
			n, err := tag.Int64(i)
			return IntValue(n), err
		})
	case tiff.RatVal:
		return collectTiff(tag, func(i int) (Value, error) {
			num, den, err := tag.Rat2(i)
			return RationalValue(num, den), err
		})
	case tiff.FloatVal:
		return collectTiff(tag, func(i int) (Value, error) {
			f, err := tag.Float(i)
			return FloatValue(f), err
		})
	case tiff.UndefVal:
		raw := bytes.TrimRight(tag.Val, "\x00 ")
		if len(raw) == 0 || len(raw) > 64 || !utf8.Valid(raw) || !isPrintable(raw) {
			return Value{}, false
		}
		return StringValue(string(raw)), true
	}
	return Value{}, false
}

func collectTiff(tag *tiff.Tag, at func(i int) (Value, error)) (Value, bool) {
	if tag.Count == 0 {
		return Value{}, false
	}
	items := make([]Value, 0, tag.Count)
	for i := 0; i < int(tag.Count); i++ {
		v, err := at(i)
		if err != nil {
			return Value{}, false
		}
		items = append(items, v)
	}
	if len(items) == 1 {
		return items[0], true
	}
	return ListValue(items...), true
}

func isPrintable(b []byte) bool {
	for _, c := range string(b) {
		if c < 0x20 || c == 0x7f {
			return false
		}
	}
	return true
}

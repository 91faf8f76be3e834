package internal

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/barasher/go-exiftool"
)

// exiftool fields describing the file itself rather than its content.
var exiftoolFileFields = map[string]bool{
	"SourceFile":          true,
	"FileName":            true,
	"Directory":           true,
	"FileSize":            true,
	"FileModifyDate":      true,
	"FileAccessDate":      true,
	"FileInodeChangeDate": true,
	"FilePermissions":     true,
	"ExifToolVersion":     true,
}

// ExiftoolReader extracts metadata through a stay-open exiftool process.
// It handles every format exiftool knows (HEIC, PNG, RAW, MOV, ...).
type ExiftoolReader struct {
	et *exiftool.Exiftool
}

// NewExiftoolReader starts exiftool. Close must be called when done.
func NewExiftoolReader() (*ExiftoolReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExiftoolReader{et: et}, nil
}

func (r *ExiftoolReader) Read(path string) (*Metadata, error) {
	infos := r.et.ExtractMetadata(path)
	if len(infos) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoMetadata)
	}
	info := infos[0]
	if info.Err != nil {
		if errors.Is(info.Err, exiftool.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, info.Err)
		}
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), ErrNoMetadata, info.Err)
	}

	kind := MediaImage
	if mime, _ := info.Fields["MIMEType"].(string); strings.HasPrefix(mime, "video/") {
		kind = MediaVideo
	}
	md := NewMetadata(path, kind)
	for key, raw := range info.Fields {
		if exiftoolFileFields[key] {
			continue
		}
		if v, ok := exiftoolValue(raw); ok {
			md.Set(key, v)
		}
	}
	if len(md.Tags) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoMetadata)
	}
	return md, nil
}

func (r *ExiftoolReader) Close() error {
	return r.et.Close()
}

// exiftoolValue converts the JSON decoded field values exiftool returns.
func exiftoolValue(raw interface{}) (Value, bool) {
	switch v := raw.(type) {
	case string:
		return StringValue(v), true
	case float64:
		return NumberValue(v), true
	case bool:
		if v {
			return StringValue("true"), true
		}
		return StringValue("false"), true
	case []interface{}:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			if iv, ok := exiftoolValue(item); ok {
				items = append(items, iv)
			}
		}
		if len(items) == 0 {
			return Value{}, false
		}
		return ListValue(items...), true
	}
	return Value{}, false
}

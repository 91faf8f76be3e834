package internal

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// MediaKind classifies a file as image or video. It selects the default
// filename prefix and the capture-time tags that are consulted.
type MediaKind int

const (
	MediaImage MediaKind = iota
	MediaVideo
)

func (k MediaKind) String() string {
	if k == MediaVideo {
		return "video"
	}
	return "image"
}

// Metadata is the tag map produced once per file by a MetadataReader.
type Metadata struct {
	Path string
	Kind MediaKind
	Tags map[string]Value
}

func NewMetadata(path string, kind MediaKind) *Metadata {
	return &Metadata{Path: path, Kind: kind, Tags: make(map[string]Value)}
}

func (m *Metadata) Set(key string, v Value) {
	m.Tags[key] = v
}

func (m *Metadata) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.Tags[key]
	return v, ok
}

// Keys returns the tag names in lexical order.
func (m *Metadata) Keys() []string {
	keys := make([]string, 0, len(m.Tags))
	for k := range m.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MetadataReader extracts the tags of a single file. It returns
// ErrNoMetadata when the file carries none and ErrUnsupported when the
// backend cannot decode the format.
type MetadataReader interface {
	Read(path string) (*Metadata, error)
}

// Classifier maps file extensions to media kinds.
type Classifier struct {
	ImageExt []string
	VideoExt []string
}

// Kind reports the media kind of path by extension (case-insensitive).
func (c Classifier) Kind(path string) (MediaKind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return MediaImage, false
	}
	for _, e := range c.VideoExt {
		if ext == strings.ToLower(e) {
			return MediaVideo, true
		}
	}
	for _, e := range c.ImageExt {
		if ext == strings.ToLower(e) {
			return MediaImage, true
		}
	}
	return MediaImage, false
}

// MediaReader routes a path to the backend that understands it: goexif for
// JPEG/TIFF images, go-mp4 for ISO-BMFF video and exiftool for anything
// else (or for everything when preferred).
type MediaReader struct {
	classes        Classifier
	exif           MetadataReader
	mp4            MetadataReader
	exiftool       MetadataReader
	preferExiftool bool
}

// NewMediaReader builds the reader for cfg. exiftool may be nil when the
// exiftool binary is not in use.
func NewMediaReader(cfg *Config, exiftool MetadataReader) *MediaReader {
	return &MediaReader{
		classes:        cfg.Classifier(),
		exif:           NewExifReader(),
		mp4:            NewMP4Reader(),
		exiftool:       exiftool,
		preferExiftool: cfg.UseExifTool && exiftool != nil,
	}
}

func (r *MediaReader) Read(path string) (*Metadata, error) {
	kind, ok := r.classes.Kind(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}

	if r.preferExiftool {
		return r.readWith(r.exiftool, path, kind)
	}

	native := r.exif
	if kind == MediaVideo {
		native = r.mp4
	}
	md, err := r.readWith(native, path, kind)
	if errors.Is(err, ErrUnsupported) {
		if r.exiftool == nil {
			return nil, fmt.Errorf("%w (enable exiftool for this format)", err)
		}
		return r.readWith(r.exiftool, path, kind)
	}
	return md, err
}

func (r *MediaReader) readWith(backend MetadataReader, path string, kind MediaKind) (*Metadata, error) {
	md, err := backend.Read(path)
	if err != nil {
		return nil, err
	}
	md.Kind = kind
	return md, nil
}

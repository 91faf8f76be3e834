package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultImagePrefix = "IMG_"
	DefaultVideoPrefix = "VID_"
)

// NamingOptions carries the raw, unvalidated naming settings.
type NamingOptions struct {
	Prefix         string
	OverridePrefix bool // Prefix replaces the media prefixes, even when empty
	ImagePrefix    string
	VideoPrefix    string
	Suffix         string
	TimeFormat     string
	TargetTimezone string
	SourceTimezone string // zone assumed when a file records no offset
	IgnoreTimezone bool
	Shift          TimeShift
}

// NamingConfig is the validated, read-only naming configuration of a run.
type NamingConfig struct {
	prefix         string
	overridePrefix bool
	imagePrefix    string
	videoPrefix    string
	suffix         string
	format         TimeFormat
	target         *time.Location
	source         *time.Location
	ignoreTimezone bool
	shift          TimeShift
}

// NewNamingConfig validates opts. Zone and format errors are returned here
// so they abort the run before the first file.
func NewNamingConfig(opts NamingOptions) (*NamingConfig, error) {
	pattern := opts.TimeFormat
	if pattern == "" {
		pattern = DefaultTimeFormat
	}
	format, err := ParseTimeFormat(pattern)
	if err != nil {
		return nil, err
	}

	target, err := ParseZone(opts.TargetTimezone)
	if err != nil {
		return nil, err
	}
	source, err := ParseZone(opts.SourceTimezone)
	if err != nil {
		return nil, err
	}
	if source == nil {
		source = time.Local
	}

	for _, part := range []string{opts.Prefix, opts.ImagePrefix, opts.VideoPrefix, opts.Suffix} {
		if strings.ContainsAny(part, `/\`) {
			return nil, fmt.Errorf("prefix or suffix %q contains a path separator", part)
		}
	}

	cfg := &NamingConfig{
		prefix:         opts.Prefix,
		overridePrefix: opts.OverridePrefix || opts.Prefix != "",
		imagePrefix:    opts.ImagePrefix,
		videoPrefix:    opts.VideoPrefix,
		suffix:         opts.Suffix,
		format:         format,
		target:         target,
		source:         source,
		ignoreTimezone: opts.IgnoreTimezone,
		shift:          opts.Shift,
	}
	if cfg.imagePrefix == "" {
		cfg.imagePrefix = DefaultImagePrefix
	}
	if cfg.videoPrefix == "" {
		cfg.videoPrefix = DefaultVideoPrefix
	}
	return cfg, nil
}

// Prefix returns the type prefix for kind.
func (c *NamingConfig) Prefix(kind MediaKind) string {
	switch {
	case c.overridePrefix:
		return c.prefix
	case kind == MediaVideo:
		return c.videoPrefix
	default:
		return c.imagePrefix
	}
}

func (c *NamingConfig) Suffix() string { return c.suffix }
func (c *NamingConfig) Format() TimeFormat { return c.format }
func (c *NamingConfig) TargetZone() *time.Location { return c.target }
func (c *NamingConfig) SourceZone() *time.Location { return c.source }
func (c *NamingConfig) IgnoreTimezone() bool { return c.ignoreTimezone }
func (c *NamingConfig) Shift() TimeShift { return c.shift }

// Name renders prefix + time + disambiguator + suffix + extension. counter
// values below 2 mean no disambiguator.
func (c *NamingConfig) Name(ts Timestamp, kind MediaKind, ext string, counter int) string {
	var b strings.Builder
	b.WriteString(c.Prefix(kind))
	b.WriteString(c.format.Format(ts.Time()))
	if counter >= 2 {
		fmt.Fprintf(&b, "_%d", counter)
	}
	b.WriteString(c.suffix)
	b.WriteString(ext)
	return b.String()
}

// NameRegistry tracks destination names of one run. A candidate is taken
// when an earlier file of the run claimed it or when a different file
// already exists there (unless that file was moved away earlier in the run).
type NameRegistry struct {
	claimed map[string]string // destination → source that claimed it
	vacated map[string]bool   // sources renamed away earlier in the run
	exists  func(path string) bool
}

// NewNameRegistry creates an empty registry. exists reports whether a path
// is present on disk; nil uses os.Lstat.
func NewNameRegistry(exists func(path string) bool) *NameRegistry {
	if exists == nil {
		exists = pathExists
	}
	return &NameRegistry{
		claimed: make(map[string]string),
		vacated: make(map[string]bool),
		exists:  exists,
	}
}

// Taken reports whether candidate is unavailable to source. A file keeping
// its own name is never a collision.
func (r *NameRegistry) Taken(candidate, source string) bool {
	candidate, source = filepath.Clean(candidate), filepath.Clean(source)
	if candidate == source {
		return false
	}
	if owner, ok := r.claimed[candidate]; ok {
		return owner != source
	}
	if r.vacated[candidate] {
		return false
	}
	return r.exists(candidate)
}

// Claim registers destination for source so later files see it as taken.
func (r *NameRegistry) Claim(destination, source string) {
	destination, source = filepath.Clean(destination), filepath.Clean(source)
	r.claimed[destination] = source
	if destination != source {
		r.vacated[source] = true
	}
}

func (r *NameRegistry) Len() int { return len(r.claimed) }

// BuildName picks the destination path for source, next to it, and claims
// it. disambiguated is set when a numeric suffix was needed.
func BuildName(ts Timestamp, source string, kind MediaKind, cfg *NamingConfig, reg *NameRegistry) (destination string, disambiguated bool) {
	dir := filepath.Dir(source)
	ext := filepath.Ext(source)

	destination = filepath.Join(dir, cfg.Name(ts, kind, ext, 1))
	for counter := 2; reg.Taken(destination, source); counter++ {
		destination = filepath.Join(dir, cfg.Name(ts, kind, ext, counter))
		disambiguated = true
	}
	reg.Claim(destination, source)
	return destination, disambiguated
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

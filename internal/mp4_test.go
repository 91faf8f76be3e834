package internal

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// buildMP4 writes an ftyp box and a moov box holding a version 0 mvhd.
func buildMP4(created time.Time, timescale, duration uint32) []byte {
	var buf bytes.Buffer
	be := binary.BigEndian
	write := func(v any) { binary.Write(&buf, be, v) }

	write(uint32(20))
	buf.WriteString("ftyp")
	buf.WriteString("isom")
	write(uint32(512))
	buf.WriteString("isom")

	var raw uint32
	if !created.IsZero() {
		raw = uint32(created.Unix() + appleEpochOffset)
	}

	write(uint32(8 + 108))
	buf.WriteString("moov")
	write(uint32(108))
	buf.WriteString("mvhd")
	write(uint32(0)) // version and flags
	write(raw)       // creation
	write(raw)       // modification
	write(timescale)
	write(duration)
	write(uint32(0x00010000)) // rate 1.0
	write(uint16(0x0100))     // volume 1.0
	buf.Write(make([]byte, 10))
	for _, m := range []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000} {
		write(m)
	}
	buf.Write(make([]byte, 24))
	write(uint32(2)) // next track id
	return buf.Bytes()
}

func TestMP4Reader(t *testing.T) {
	created := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "clip.MP4")
	if err := os.WriteFile(path, buildMP4(created, 1000, 5000), 0644); err != nil {
		t.Fatalf("Failed to write MP4: %v", err)
	}

	md, err := NewMP4Reader().Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if md.Kind != MediaVideo {
		t.Errorf("Expected a video, got %s", md.Kind)
	}

	tests := []struct {
		tag  string
		want string
	}{
		{TagCreationTime, "2023-06-01T12:00:00Z"},
		{TagModificationTime, "2023-06-01T12:00:00Z"},
		{TagDuration, "5"},
		{TagMajorBrand, "isom"},
	}
	for _, tt := range tests {
		v, ok := md.Get(tt.tag)
		if !ok || v.String() != tt.want {
			t.Errorf("Expected %s=%s, got %v (%v)", tt.tag, tt.want, v, ok)
		}
	}

	ts, err := ResolveTimestamp(md, mustNaming(t, NamingOptions{}))
	if err != nil {
		t.Fatalf("ResolveTimestamp failed: %v", err)
	}
	if got := mustNaming(t, NamingOptions{}).Name(ts, MediaVideo, ".MP4", 1); got != "VID_20230601_120000.MP4" {
		t.Errorf("Expected VID_20230601_120000.MP4, got %s", got)
	}
}

func TestMP4Reader_UnsetClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mov")
	if err := os.WriteFile(path, buildMP4(time.Time{}, 600, 0), 0644); err != nil {
		t.Fatalf("Failed to write MP4: %v", err)
	}

	md, err := NewMP4Reader().Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, ok := md.Get(TagCreationTime); ok {
		t.Error("Expected a zero creation time to be dropped")
	}

	_, err = ResolveTimestamp(md, mustNaming(t, NamingOptions{}))
	var noTS *NoTimestampError
	if !errors.As(err, &noTS) {
		t.Errorf("Expected NoTimestampError, got %v", err)
	}
}

func TestMP4Reader_Unsupported(t *testing.T) {
	if _, err := NewMP4Reader().Read("/videos/clip.avi"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestMP4Time(t *testing.T) {
	tests := []struct {
		raw  uint64
		want time.Time
		ok   bool
	}{
		{0, time.Time{}, false},
		{1, time.Time{}, false}, // 1904
		{appleEpochOffset, time.Unix(0, 0).UTC(), true},
		{appleEpochOffset + 1685620800, time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		got, ok := mp4Time(tt.raw)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("mp4Time(%d): expected (%v, %v), got (%v, %v)", tt.raw, tt.want, tt.ok, got, ok)
		}
	}
}

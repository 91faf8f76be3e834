package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	mp4 "github.com/abema/go-mp4"
)

// appleEpochOffset is the number of seconds between the ISO-BMFF epoch
// (1904-01-01 UTC) and the Unix epoch.
const appleEpochOffset = 2082844800

var mp4Extensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".m4v": true,
	".3gp": true,
	".3g2": true,
}

// MP4Reader reads container level tags (moov/mvhd and ftyp) from ISO base
// media files.
type MP4Reader struct{}

func NewMP4Reader() *MP4Reader {
	return &MP4Reader{}
}

func (r *MP4Reader) Read(path string) (*Metadata, error) {
	if !mp4Extensions[strings.ToLower(filepath.Ext(path))] {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxesWithPayload(f, nil, []mp4.BoxPath{
		{mp4.BoxTypeFtyp()},
		{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), ErrNoMetadata, err)
	}

	md := NewMetadata(path, MediaVideo)
	for _, box := range boxes {
		switch payload := box.Payload.(type) {
		case *mp4.Ftyp:
			md.Set(TagMajorBrand, StringValue(strings.TrimSpace(string(payload.MajorBrand[:]))))
		case *mp4.Mvhd:
			if t, ok := mp4Time(payload.GetCreationTime()); ok {
				md.Set(TagCreationTime, StringValue(t.Format(time.RFC3339)))
			}
			if t, ok := mp4Time(payload.GetModificationTime()); ok {
				md.Set(TagModificationTime, StringValue(t.Format(time.RFC3339)))
			}
			if payload.Timescale > 0 {
				secs := float64(payload.GetDuration()) / float64(payload.Timescale)
				md.Set(TagDuration, FloatValue(secs))
			}
		}
	}
	if len(md.Tags) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoMetadata)
	}
	return md, nil
}

// mp4Time converts a container timestamp. Zero means "not set" and values
// before the Unix epoch come from devices that never set their clock.
func mp4Time(raw uint64) (time.Time, bool) {
	if raw == 0 {
		return time.Time{}, false
	}
	t := time.Unix(int64(raw)-appleEpochOffset, 0).UTC()
	if t.Year() < 1970 {
		return time.Time{}, false
	}
	return t, true
}

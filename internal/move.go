package internal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cespare/xxhash"
)

// Mover performs the physical rename of one planned decision.
type Mover interface {
	Move(src, dest string) error
}

// RenameMover renames within the filesystem and never overwrites.
type RenameMover struct{}

// Move renames src to dest. It returns ErrDestinationExists when dest is
// occupied by another file. A destination that is the same file as src
// (a case-only rename on a case-insensitive filesystem) is allowed.
func (RenameMover) Move(src, dest string) error {
	destInfo, err := os.Lstat(dest)
	switch {
	case err == nil:
		srcInfo, serr := os.Lstat(src)
		if serr != nil {
			return fmt.Errorf("failed to stat %s: %w", src, serr)
		}
		if !os.SameFile(srcInfo, destInfo) {
			return fmt.Errorf("%s: %w", dest, ErrDestinationExists)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to stat %s: %w", dest, err)
	}

	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", src, dest, err)
	}
	return nil
}

// fileHash computes the xxhash64 of a file content.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

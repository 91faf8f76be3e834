package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash"
	"github.com/gofrs/flock"
)

// RunLock keeps two real runs from renaming inside the same tree at once.
type RunLock struct {
	lock *flock.Flock
}

// LockPath returns the lock file used for root. The path is keyed by a hash
// of the absolute root so it works for read-only trees.
func LockPath(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	name := fmt.Sprintf("exifrename-%016x.lock", xxhash.Sum64String(abs))
	return filepath.Join(os.TempDir(), name), nil
}

// AcquireRunLock takes the lock for root without blocking. It returns
// ErrRunLocked when another process holds it.
func AcquireRunLock(root string) (*RunLock, error) {
	path, err := LockPath(root)
	if err != nil {
		return nil, err
	}
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", root, ErrRunLocked)
	}
	return &RunLock{lock: fl}, nil
}

func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

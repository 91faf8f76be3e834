package internal

import (
	"errors"
	"testing"
)

func TestRunLock(t *testing.T) {
	root := t.TempDir()

	first, err := AcquireRunLock(root)
	if err != nil {
		t.Fatalf("AcquireRunLock failed: %v", err)
	}

	if _, err := AcquireRunLock(root); !errors.Is(err, ErrRunLocked) {
		t.Errorf("Expected ErrRunLocked for a second run, got %v", err)
	}

	other, err := AcquireRunLock(t.TempDir())
	if err != nil {
		t.Errorf("Expected a different tree to lock independently, got %v", err)
	}
	other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	again, err := AcquireRunLock(root)
	if err != nil {
		t.Fatalf("Expected the lock to be free after release, got %v", err)
	}
	again.Release()
}

func TestLockPath_Stable(t *testing.T) {
	root := t.TempDir()
	a, err := LockPath(root)
	if err != nil {
		t.Fatalf("LockPath failed: %v", err)
	}
	b, _ := LockPath(root + "/.")
	if a != b {
		t.Errorf("Expected equivalent roots to share a lock, got %s and %s", a, b)
	}

	var nilLock *RunLock
	if err := nilLock.Release(); err != nil {
		t.Errorf("Expected releasing a nil lock to be a no-op, got %v", err)
	}
}

package internal

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

// UndoStats counts the outcome of an undo.
type UndoStats struct {
	Restored int
	Planned  int
	Skipped  int
	Failed   int
}

func (s UndoStats) String() string {
	if s.Planned > 0 {
		return "would restore " + FormatCount(s.Planned, "file") + ", skipped " + FormatCount(s.Skipped, "file")
	}
	return "restored " + FormatCount(s.Restored, "file") + ", skipped " + FormatCount(s.Skipped, "file") + ", failed " + FormatCount(s.Failed, "file")
}

// LastRunID returns the run ID of the last real (not dry) run, or "".
func LastRunID(events []JournalEvent) string {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Event == EventRunStart && !events[i].DryRun {
			return events[i].RunID
		}
	}
	return ""
}

// Undo moves the files renamed in run runID (every run when empty) back
// to their original names, newest rename first. A file is left alone
// when it is gone, when its content changed since the rename, or when the
// original name has been taken again.
func Undo(events []JournalEvent, runID string, mover Mover, dryRun bool, logger *slog.Logger) UndoStats {
	var stats UndoStats
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if ev.Event != EventRenamed || (runID != "" && ev.RunID != runID) {
			continue
		}
		log := logger.With("file", ev.Dest)

		if _, err := os.Lstat(ev.Dest); err != nil {
			stats.Skipped++
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn("not restored: file no longer exists")
			} else {
				log.Warn("not restored", "error", err.Error())
			}
			continue
		}
		if ev.Hash != "" {
			hash, err := fileHash(ev.Dest)
			if err != nil || hash != ev.Hash {
				stats.Skipped++
				log.Warn("not restored: content changed since rename")
				continue
			}
		}
		if pathExists(ev.Src) {
			stats.Skipped++
			log.Warn("not restored: original name is taken", "original", ev.Src)
			continue
		}

		if dryRun {
			stats.Planned++
			logger.Info(ev.Dest + " -> " + ev.Src + " (would restore)")
			continue
		}
		if err := mover.Move(ev.Dest, ev.Src); err != nil {
			stats.Failed++
			log.Error("restore failed", "error", err.Error())
			continue
		}
		stats.Restored++
		logger.Info(ev.Dest + " -> " + ev.Src)
	}
	return stats
}

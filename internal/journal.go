package internal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Journal event names.
const (
	EventRunStart = "run_start"
	EventRenamed  = "renamed"
	EventSkipped  = "skipped"
	EventFailed   = "failed"
	EventRunEnd   = "run_end"
)

// Journal is an append-only JSONL record of one run. Undo replays the
// renamed events of a journal backwards.
type Journal struct {
	RunID string
	Path  string

	mu   sync.Mutex
	file *os.File
}

// JournalEvent represents a single line in the journal.
type JournalEvent struct {
	Event string `json:"event"`
	Ts    string `json:"ts"`
	RunID string `json:"run_id"`
	Src   string `json:"src,omitempty"`
	Dest  string `json:"dest,omitempty"`
	Hash  string `json:"hash,omitempty"`

	Reason          string `json:"reason,omitempty"`
	Error           string `json:"error,omitempty"`
	ErrorCategory   string `json:"error_category,omitempty"`
	ErrorSeverity   string `json:"error_severity,omitempty"`
	ErrorSuggestion string `json:"error_suggestion,omitempty"`

	// Run start/end fields
	Root      string `json:"root,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
	Processed int    `json:"processed,omitempty"`
	Renamed   int    `json:"renamed,omitempty"`
	Planned   int    `json:"planned,omitempty"`
	Unchanged int    `json:"unchanged,omitempty"`
	Skipped   int    `json:"skipped,omitempty"`
	Failed    int    `json:"failed,omitempty"`
}

// OpenJournal creates (or appends to) the journal at path with a new run ID.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &Journal{RunID: uuid.NewString(), Path: path, file: f}, nil
}

func (j *Journal) LogRunStart(root string, dryRun bool) error {
	return j.writeEvent(JournalEvent{Event: EventRunStart, Root: root, DryRun: dryRun})
}

// LogRenamed records a completed move. hash is the content hash of the
// file, checked again by undo.
func (j *Journal) LogRenamed(src, dest, hash string) error {
	return j.writeEvent(JournalEvent{Event: EventRenamed, Src: src, Dest: dest, Hash: hash})
}

func (j *Journal) LogSkipped(src string, reason SkipReason, err error) error {
	event := JournalEvent{Event: EventSkipped, Src: src, Reason: string(reason)}
	if err != nil {
		event.Error = err.Error()
	}
	return j.writeEvent(event)
}

// LogFailed logs a categorized move failure.
func (j *Journal) LogFailed(src, dest string, procErr *ProcessError) error {
	return j.writeEvent(JournalEvent{
		Event:           EventFailed,
		Src:             src,
		Dest:            dest,
		Error:           procErr.OriginalErr.Error(),
		ErrorCategory:   string(procErr.Category),
		ErrorSeverity:   string(procErr.Severity),
		ErrorSuggestion: procErr.Suggestion,
	})
}

func (j *Journal) LogRunEnd(stats RunStats) error {
	return j.writeEvent(JournalEvent{
		Event:     EventRunEnd,
		Processed: stats.Processed,
		Renamed:   stats.Renamed,
		Planned:   stats.Planned,
		Unchanged: stats.Unchanged,
		Skipped:   stats.SkippedTotal(),
		Failed:    stats.Failed,
	})
}

func (j *Journal) Close() error {
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}

func (j *Journal) writeEvent(event JournalEvent) error {
	event.Ts = time.Now().UTC().Format(time.RFC3339)
	event.RunID = j.RunID

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to journal: %w", err)
	}
	return j.file.Sync()
}

// ReadJournal parses every event of the journal at path.
func ReadJournal(path string) ([]JournalEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []JournalEvent
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var event JournalEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

package internal

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RunStats counts the outcome of every processed file.
type RunStats struct {
	Processed int
	Renamed   int
	Planned   int // renames a dry run would have made
	Unchanged int
	Failed    int
	Skipped   map[SkipReason]int
}

func NewRunStats() RunStats {
	return RunStats{Skipped: make(map[SkipReason]int)}
}

func (s RunStats) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// Summary renders the per-status counts as a table.
func (s RunStats) Summary() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("Processed %d files", s.Processed))
	tw.AppendHeader(table.Row{"Status", "Files"})

	if s.Planned > 0 {
		tw.AppendRow(table.Row{"PLANNED", s.Planned})
	}
	tw.AppendRow(table.Row{"RENAMED", s.Renamed})
	tw.AppendRow(table.Row{"UNCHANGED", s.Unchanged})

	reasons := make([]string, 0, len(s.Skipped))
	for r := range s.Skipped {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		tw.AppendRow(table.Row{"SKIPPED (" + r + ")", s.Skipped[SkipReason(r)]})
	}
	tw.AppendRow(table.Row{"FAILED", s.Failed})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return tw.Render()
}

// Runner executes a plan: it logs every decision, hands accepted renames
// to the mover and records the outcome.
type Runner struct {
	Planner *Planner
	Mover   Mover
	Journal *Journal // optional
	Logger  *slog.Logger
	DryRun  bool
	Errors  *ErrorStats
}

// Run consumes the plan for paths. Cancelling ctx stops the run before the
// next file; the stats of the files already handled are returned with the
// context error.
func (r *Runner) Run(ctx context.Context, paths iter.Seq2[string, error]) (RunStats, error) {
	return r.RunWith(ctx, paths, NewNameRegistry(nil))
}

// RunWith is Run with a registry shared with other passes of the session.
func (r *Runner) RunWith(ctx context.Context, paths iter.Seq2[string, error], reg *NameRegistry) (RunStats, error) {
	stats := NewRunStats()
	if r.Errors == nil {
		r.Errors = NewErrorStats()
	}
	for d := range r.Planner.PlanWith(ctx, paths, reg) {
		r.Apply(d, &stats)
	}
	return stats, ctx.Err()
}

// Apply carries out one decision and updates stats.
func (r *Runner) Apply(d Decision, stats *RunStats) {
	stats.Processed++
	logger := r.Logger.With("file", d.Source)

	switch d.Kind {
	case DecisionSkip:
		stats.Skipped[d.Reason]++
		if d.Reason == SkipFiltered {
			logger.Debug("skipped", "reason", string(d.Reason))
		} else {
			procErr := CategorizeError(d.Source, d.Err)
			if procErr != nil {
				procErr.Severity = ErrorSeverityWarning
				r.Errors.Add(procErr)
			}
			logger.Warn("skipped", "reason", string(d.Reason), "error", errString(d.Err))
		}
		r.journal(func(j *Journal) error { return j.LogSkipped(d.Source, d.Reason, d.Err) })

	case DecisionUnchanged:
		stats.Unchanged++
		logger.Debug("name already correct", "time", d.Timestamp.String(), "key", d.Timestamp.Key())

	case DecisionRename:
		if r.DryRun {
			stats.Planned++
			r.Logger.Info(renameLine(d) + " (would rename)")
			return
		}

		if err := r.Mover.Move(d.Source, d.Destination); err != nil {
			stats.Failed++
			procErr := CategorizeError(d.Source, err)
			r.Errors.Add(procErr)
			logger.Error("rename failed", "error", err.Error(), "category", string(procErr.Category))
			r.journal(func(j *Journal) error { return j.LogFailed(d.Source, d.Destination, procErr) })
			return
		}

		stats.Renamed++
		r.Logger.Info(renameLine(d))
		logger.Debug("renamed", "time", d.Timestamp.String(), "key", d.Timestamp.Key(), "zone", d.Timestamp.ZoneSource().String(), "disambiguated", d.Deferred)
		r.journal(func(j *Journal) error {
			hash, err := fileHash(d.Destination)
			if err != nil {
				r.Logger.Debug("could not hash renamed file", "file", d.Destination, "error", err.Error())
			}
			return j.LogRenamed(d.Source, d.Destination, hash)
		})
	}
}

func (r *Runner) journal(write func(j *Journal) error) {
	if r.Journal == nil {
		return
	}
	if err := write(r.Journal); err != nil {
		r.Logger.Warn("journal write failed", "journal", r.Journal.Path, "error", err.Error())
	}
}

// renameLine renders "[dir]: old -> new".
func renameLine(d Decision) string {
	return "[" + filepath.Dir(d.Source) + "]: " + filepath.Base(d.Source) + " -> " + filepath.Base(d.Destination)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// FormatCount renders n with its unit, e.g. "1 file", "3 files".
func FormatCount(n int, unit string) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(n))
	b.WriteByte(' ')
	b.WriteString(unit)
	if n != 1 {
		b.WriteByte('s')
	}
	return b.String()
}

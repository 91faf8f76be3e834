package internal

import (
	"context"
	"errors"
	"iter"
	"path/filepath"
)

// DecisionKind is the outcome planned for one file.
type DecisionKind int

const (
	DecisionRename DecisionKind = iota
	DecisionUnchanged
	DecisionSkip
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionRename:
		return "rename"
	case DecisionUnchanged:
		return "unchanged"
	case DecisionSkip:
		return "skip"
	}
	return "unknown"
}

// SkipReason explains why a file is left alone.
type SkipReason string

const (
	SkipFiltered    SkipReason = "filtered"
	SkipNoTimestamp SkipReason = "no timestamp"
	SkipNoMetadata  SkipReason = "no metadata"
	SkipUnsupported SkipReason = "unsupported"
	SkipUnreadable  SkipReason = "unreadable"
)

// Decision is the plan for one input file. Destination is set for rename
// and unchanged decisions; Reason and Err for skips.
type Decision struct {
	Source      string
	Destination string
	Kind        DecisionKind
	Reason      SkipReason
	Deferred    bool // the name collided and carries a disambiguator
	Media       MediaKind
	Timestamp   Timestamp
	Err         error
}

// Planner turns input paths into rename decisions. It never touches the
// filesystem except to read metadata and check whether names exist.
type Planner struct {
	reader MetadataReader
	naming *NamingConfig
	filter Filter
}

func NewPlanner(reader MetadataReader, naming *NamingConfig, filter Filter) *Planner {
	return &Planner{reader: reader, naming: naming, filter: filter}
}

// Plan lazily yields one decision per path in input order. Every call to
// the returned sequence starts a fresh run with its own NameRegistry.
// Iteration stops before the next file once ctx is cancelled.
func (p *Planner) Plan(ctx context.Context, paths iter.Seq2[string, error]) iter.Seq[Decision] {
	return func(yield func(Decision) bool) {
		for d := range p.PlanWith(ctx, paths, NewNameRegistry(nil)) {
			if !yield(d) {
				return
			}
		}
	}
}

// PlanWith is Plan against a registry owned by the caller, so names claimed
// by an earlier plan stay taken.
func (p *Planner) PlanWith(ctx context.Context, paths iter.Seq2[string, error], reg *NameRegistry) iter.Seq[Decision] {
	return func(yield func(Decision) bool) {
		for path, err := range paths {
			if ctx.Err() != nil {
				return
			}
			var d Decision
			if err != nil {
				d = Decision{Source: path, Kind: DecisionSkip, Reason: SkipUnreadable, Err: err}
			} else {
				d = p.Step(path, reg)
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Step plans a single file against reg and claims its destination.
func (p *Planner) Step(path string, reg *NameRegistry) Decision {
	d := Decision{Source: path}

	md, err := p.reader.Read(path)
	if err != nil {
		return skipDecision(d, skipReasonFor(err), err)
	}
	d.Media = md.Kind

	if len(p.filter) > 0 && !p.filter.Matches(md) {
		return skipDecision(d, SkipFiltered, nil)
	}

	ts, err := ResolveTimestamp(md, p.naming)
	if err != nil {
		return skipDecision(d, SkipNoTimestamp, err)
	}
	d.Timestamp = ts

	d.Destination, d.Deferred = BuildName(ts, path, md.Kind, p.naming, reg)
	if filepath.Clean(d.Destination) == filepath.Clean(path) {
		d.Kind = DecisionUnchanged
	} else {
		d.Kind = DecisionRename
	}
	return d
}

// Inspection is the read-only view used by --list-meta.
type Inspection struct {
	Path      string
	Metadata  *Metadata
	Matched   bool
	Timestamp Timestamp
	Err       error // read or timestamp error
}

// Inspect reads and evaluates path without planning a name.
func (p *Planner) Inspect(path string) Inspection {
	in := Inspection{Path: path}
	md, err := p.reader.Read(path)
	if err != nil {
		in.Err = err
		return in
	}
	in.Metadata = md
	in.Matched = p.filter.Matches(md)
	if !in.Matched {
		return in
	}
	in.Timestamp, in.Err = ResolveTimestamp(md, p.naming)
	return in
}

func skipDecision(d Decision, reason SkipReason, err error) Decision {
	d.Kind = DecisionSkip
	d.Reason = reason
	d.Err = err
	return d
}

func skipReasonFor(err error) SkipReason {
	switch {
	case errors.Is(err, ErrUnsupported):
		return SkipUnsupported
	case errors.Is(err, ErrNoMetadata):
		return SkipNoMetadata
	}
	return SkipUnreadable
}

package autoversion

import (
	"context"
	"fmt"
	"log/slog"
)

// Status is the three-way outcome of an engine run.
type Status int

const (
	Changed Status = iota
	Unchanged
	Failed
)

// Process exit codes for each Status. Unchanged is non-zero so that
// orchestration can tell "nothing to do" apart from success.
const (
	ExitChanged   = 0
	ExitFailed    = 1
	ExitUnchanged = 2
)

func (s Status) String() string {
	switch s {
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ExitCode maps the status onto the process exit contract.
func (s Status) ExitCode() int {
	switch s {
	case Changed:
		return ExitChanged
	case Unchanged:
		return ExitUnchanged
	default:
		return ExitFailed
	}
}

// Result describes what a run did.
type Result struct {
	Status  Status
	Old     Version        // version read before the run
	New     Version        // version after the run; equal to Old unless Changed
	Class   IncrementClass // only meaningful when the guard did not skip
	Skipped bool           // the loop guard fired
	DryRun  bool           // New was computed but not written
	Message string         // the commit message that was evaluated
	Err     error
}

// Engine decides whether and how to bump the stored version for a commit message.
type Engine struct {
	store  Store
	logger *slog.Logger
	force  *IncrementClass
	dryRun bool
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithForcedClass makes every run use class instead of classifying the message.
// The loop guard still applies.
func WithForcedClass(class IncrementClass) EngineOption {
	return func(e *Engine) { e.force = &class }
}

// WithDryRun computes the next version without writing it.
func WithDryRun(dryRun bool) EngineOption {
	return func(e *Engine) { e.dryRun = dryRun }
}

// NewEngine returns an Engine backed by store.
func NewEngine(store Store, opts ...EngineOption) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Run evaluates message against the stored version.
//
// Our own version commits are skipped (Unchanged) unless they carry an
// explicit marker. Otherwise the version is bumped by the class the message
// asks for and written back; a failed write yields Failed.
func (e *Engine) Run(message string) Result {
	old := e.store.Read()
	res := Result{Status: Unchanged, Old: old, New: old, Message: message}

	if ShouldSkip(message) {
		e.logger.Info("Skipping version update, commit appears to be an auto-version update",
			slog.String("version", old.String()))
		res.Skipped = true
		return res
	}

	class := Classify(message)
	if e.force != nil {
		class = *e.force
	}
	res.Class = class

	next, err := old.Bump(class)
	if err != nil {
		return e.fail(res, err)
	}

	e.logger.Debug("Computed next version",
		slog.String("old", old.String()),
		slog.String("new", next.String()),
		slog.String("class", class.String()))

	if e.dryRun {
		res.DryRun = true
		res.New = next
		res.Status = Changed
		return res
	}

	if err := e.store.Write(next); err != nil {
		return e.fail(res, fmt.Errorf("persisting version %s: %w", next, err))
	}
	res.New = next
	if Compare(next, old) != 0 {
		res.Status = Changed
	}
	return res
}

// RunFromSource fetches the latest commit message from src and runs it.
// An unavailable source counts as an empty message, which bumps the patch level.
func (e *Engine) RunFromSource(ctx context.Context, src CommitSource) Result {
	message, err := src.LatestMessage(ctx)
	if err != nil {
		e.logger.Warn("Could not read latest commit message, treating it as empty",
			slog.String("error", err.Error()))
		message = ""
	}
	return e.Run(message)
}

func (e *Engine) fail(res Result, err error) Result {
	e.logger.Error("Version update failed", slog.String("error", err.Error()))
	res.Status = Failed
	res.New = res.Old
	res.Err = err
	return res
}

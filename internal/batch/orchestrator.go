package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subsync/internal/delay"
	"subsync/internal/history"
	"subsync/internal/logging"
	"subsync/internal/resync"
)

// Store abstracts document storage. ReadAll and WriteAll move whole
// documents; ListEntries enumerates the immediate entries of a directory
// without recursing.
type Store interface {
	ReadAll(path string) (string, error)
	WriteAll(path string, text string) error
	ListEntries(dir string) ([]string, error)
}

// Preview is what the caller sees before anything is written.
type Preview struct {
	RunID     string
	Target    string
	Documents []string
	Model     delay.Model
}

// ConfirmFunc decides whether a previewed run may mutate documents.
type ConfirmFunc func(Preview) (bool, error)

// Failure names a document that was skipped and why.
type Failure struct {
	Path string
	Err  error
}

// Summary is the terminal report of a run.
type Summary struct {
	RunID     string
	Confirmed bool
	Synced    int
	Skipped   int
	Failures  []Failure
}

// Orchestrator drives resolve, preview, confirm, and apply for one run.
type Orchestrator struct {
	Store      Store
	Extensions []string
	GuardMode  resync.GuardMode

	// Confirm gates the apply phase. A nil Confirm accepts every preview,
	// for non-interactive embeddings.
	Confirm ConfirmFunc

	// LockPath, when set, takes an advisory file lock for the duration of
	// the apply phase so overlapping local runs do not interleave writes.
	LockPath string

	// Journal, when set, records the run and its per-document outcomes.
	Journal *history.Store

	Logger *slog.Logger
}

// Run executes the full state machine against target with the given model.
// Declining the confirmation returns a Summary with Confirmed false and no
// document mutated. Per-document failures land in the Summary; only
// resolution and confirmation problems are returned as errors.
func (o *Orchestrator) Run(ctx context.Context, target string, m delay.Model) (Summary, error) {
	logger := o.logger()
	started := time.Now()

	docs, err := o.Resolve(target)
	if err != nil {
		return Summary{}, err
	}

	preview := Preview{
		RunID:     uuid.NewString(),
		Target:    target,
		Documents: docs,
		Model:     m,
	}
	logger = logger.With(slog.String("run_id", preview.RunID))
	logger.Debug("resolved working set",
		slog.String("target", target),
		slog.Int("documents", len(docs)),
		slog.Float64("delay_ms", m.InitialDelay),
		slog.Float64("growth", m.Growth))

	confirmed, err := o.confirm(preview)
	if err != nil {
		return Summary{}, fmt.Errorf("confirm run: %w", err)
	}
	summary := Summary{RunID: preview.RunID, Confirmed: confirmed}
	if !confirmed {
		logger.Info("run declined, nothing written")
		o.record(ctx, preview, summary, started, logger)
		return summary, nil
	}

	if o.LockPath != "" {
		lock := flock.New(o.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return summary, fmt.Errorf("acquire run lock %s: %w", o.LockPath, err)
		}
		if !locked {
			return summary, fmt.Errorf("another run is applying changes (lock %s is held)", o.LockPath)
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	for _, path := range preview.Documents {
		if err := o.applyOne(path, m); err != nil {
			logger.Warn("document skipped", slog.String("path", path), slog.Any("error", err))
			summary.Skipped++
			summary.Failures = append(summary.Failures, Failure{Path: path, Err: err})
			continue
		}
		logger.Info("document synchronized", slog.String("path", path))
		summary.Synced++
	}

	o.record(ctx, preview, summary, started, logger)
	return summary, nil
}

// applyOne runs guard, rewrite, and persist for a single document. The
// write replaces the document's entire prior content.
func (o *Orchestrator) applyOne(path string, m delay.Model) error {
	text, err := o.Store.ReadAll(path)
	if err != nil {
		return err
	}
	if err := resync.Check(text, m, o.GuardMode); err != nil {
		return fmt.Errorf("guard %s: %w", path, err)
	}
	rewritten, err := resync.Rewrite(text, m)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	if err := o.Store.WriteAll(path, rewritten); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) confirm(preview Preview) (bool, error) {
	if o.Confirm == nil {
		return true, nil
	}
	return o.Confirm(preview)
}

func (o *Orchestrator) record(ctx context.Context, preview Preview, summary Summary, started time.Time, logger *slog.Logger) {
	if o.Journal == nil {
		return
	}
	run := history.Run{
		ID:         preview.RunID,
		Target:     preview.Target,
		DelayMs:    preview.Model.InitialDelay,
		Growth:     preview.Model.Growth,
		Synced:     summary.Synced,
		Skipped:    summary.Skipped,
		Confirmed:  summary.Confirmed,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	var docs []history.DocumentOutcome
	if summary.Confirmed {
		failed := make(map[string]string, len(summary.Failures))
		for _, failure := range summary.Failures {
			failed[failure.Path] = failure.Err.Error()
		}
		for _, path := range preview.Documents {
			outcome := history.DocumentOutcome{RunID: run.ID, Path: path, Outcome: "synced"}
			if detail, ok := failed[path]; ok {
				outcome.Outcome = "skipped"
				outcome.Detail = detail
			}
			docs = append(docs, outcome)
		}
	}
	if err := o.Journal.RecordRun(ctx, run, docs); err != nil {
		logger.Warn("journal write failed", slog.Any("error", err))
	}
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.NopLogger()
}

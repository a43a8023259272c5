package resync

import (
	"errors"
	"fmt"
	"math"

	"subsync/internal/delay"
	"subsync/internal/timecode"
)

var (
	// ErrDelayUnderflow marks a delay that would push a cue below time
	// zero, which the format cannot represent.
	ErrDelayUnderflow = errors.New("delay underflow")
	// ErrNoTimecodes marks a document without a single timecode to guard.
	ErrNoTimecodes = errors.New("no timecodes in document")
)

// GuardMode selects how thoroughly Check inspects a document before a
// rewrite is allowed.
type GuardMode int

const (
	// GuardFirstCue checks only the first occurrence against the
	// unmultiplied initial delay. This replicates the original tool's
	// check; growth can still drive a later cue negative and surface as a
	// rewrite failure instead. Kept as the default for compatibility.
	GuardFirstCue GuardMode = iota
	// GuardStrict checks every occurrence under the full growth-adjusted
	// model.
	GuardStrict
)

// Check validates that applying m to doc cannot produce a negative first
// cue. With GuardFirstCue only the constant delay term is consulted.
func Check(doc string, m delay.Model, mode GuardMode) error {
	spans := timecode.Occurrences(doc)
	if len(spans) == 0 {
		return ErrNoTimecodes
	}

	if mode == GuardStrict {
		return checkStrict(doc, spans, m)
	}

	first, err := timecode.Parse(doc[spans[0].Start:spans[0].End])
	if err != nil {
		return fmt.Errorf("parse first timecode: %w", err)
	}
	if float64(first)+m.InitialDelay < 0 {
		return fmt.Errorf("%w: first cue at %d ms with initial delay %.0f ms", ErrDelayUnderflow, first, m.InitialDelay)
	}
	return nil
}

func checkStrict(doc string, spans []timecode.Span, m delay.Model) error {
	for i, span := range spans {
		ms, err := timecode.Parse(doc[span.Start:span.End])
		if err != nil {
			return fmt.Errorf("parse timecode %d: %w", i+1, err)
		}
		delayed := m.Apply(ms)
		if math.IsNaN(delayed) || delayed < 0 {
			return fmt.Errorf("%w: timecode %d (%d ms) would become %.0f ms", ErrDelayUnderflow, i+1, ms, delayed)
		}
	}
	return nil
}

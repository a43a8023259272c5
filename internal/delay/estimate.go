package delay

import (
	"errors"
	"fmt"
	"math"

	"subsync/internal/timecode"
)

var (
	// ErrInsufficientAnchors marks a document with fewer than two timecode
	// occurrences, leaving nothing to anchor the fit against.
	ErrInsufficientAnchors = errors.New("insufficient anchors")
	// ErrDegenerateInterval marks reference times that coincide, which
	// puts a zero in the exponent denominator.
	ErrDegenerateInterval = errors.New("degenerate reference interval")
	// ErrUndefinedGrowth marks anchor delays whose ratio has no real
	// fractional power: a zero or opposite-sign delay pair.
	ErrUndefinedGrowth = errors.New("undefined growth factor")
)

// ExponentBase selects which anchor spacing divides the growth exponent.
//
// The closed-form derivation solves delay(t) = delay1 * growth^t at two
// anchors and divides the equations; the original implementation divides the
// exponent by the real-world anchor spacing rather than the
// subtitle-internal spacing, and the two choices diverge whenever the delay
// is non-negligible relative to that spacing. The real-world base is kept as
// the compatible default; the subtitle base is selectable so the discrepancy
// stays observable.
type ExponentBase int

const (
	// ExponentRealWorld divides by time1 - time2 (compatible default).
	ExponentRealWorld ExponentBase = iota
	// ExponentSubtitle divides by the subtitle-internal anchor spacing.
	ExponentSubtitle
)

// Anchor pairs a real-world dialogue time with the subtitle's own claimed
// time for the same event, both in milliseconds.
type Anchor struct {
	RealWorldMs int64
	SubtitleMs  int64
}

// Estimator fits a Model from a subtitle document and two externally
// supplied real-world reference times.
type Estimator struct {
	Base ExponentBase
}

// Fit derives a delay model from the document text and the real-world times
// of the first and last spoken lines, time1 < time2, in milliseconds.
//
// The first timecode occurrence anchors time1. The second-to-last occurrence
// anchors time2: every cue contributes a start and an end timecode, so the
// final cue's start time, the meaningful anchor for "last spoken line", is
// the second-to-last occurrence in the document.
func (e Estimator) Fit(doc string, time1, time2 int64) (Model, error) {
	spans := timecode.Occurrences(doc)
	if len(spans) < 2 {
		return Model{}, fmt.Errorf("%w: found %d timecodes, need at least 2", ErrInsufficientAnchors, len(spans))
	}

	first := spans[0]
	penultimate := spans[len(spans)-2]
	sub1, err := timecode.Parse(doc[first.Start:first.End])
	if err != nil {
		return Model{}, fmt.Errorf("parse first anchor: %w", err)
	}
	sub2, err := timecode.Parse(doc[penultimate.Start:penultimate.End])
	if err != nil {
		return Model{}, fmt.Errorf("parse second anchor: %w", err)
	}

	return e.fit(Anchor{RealWorldMs: time1, SubtitleMs: sub1}, Anchor{RealWorldMs: time2, SubtitleMs: sub2})
}

// fit solves the two-anchor system for initial delay and growth.
func (e Estimator) fit(a1, a2 Anchor) (Model, error) {
	delay1 := float64(a1.RealWorldMs - a1.SubtitleMs)
	delay2 := float64(a2.RealWorldMs - a2.SubtitleMs)

	var spacing float64
	switch e.Base {
	case ExponentSubtitle:
		spacing = float64(a1.SubtitleMs - a2.SubtitleMs)
	default:
		spacing = float64(a1.RealWorldMs - a2.RealWorldMs)
	}
	if spacing == 0 {
		return Model{}, fmt.Errorf("%w: anchors share the same time", ErrDegenerateInterval)
	}

	ratio := delay1 / delay2
	if delay2 == 0 || ratio <= 0 {
		return Model{}, fmt.Errorf("%w: anchor delays %.0f ms and %.0f ms", ErrUndefinedGrowth, delay1, delay2)
	}

	growth := math.Pow(ratio, 1/spacing)
	if math.IsNaN(growth) || math.IsInf(growth, 0) {
		return Model{}, fmt.Errorf("%w: anchor delays %.0f ms and %.0f ms", ErrUndefinedGrowth, delay1, delay2)
	}

	return Model{InitialDelay: delay1, Growth: growth}, nil
}

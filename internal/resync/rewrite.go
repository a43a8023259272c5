package resync

import (
	"fmt"
	"math"
	"strings"

	"subsync/internal/delay"
	"subsync/internal/timecode"
)

// Rewrite returns doc with every timecode occurrence replaced by its delayed
// value under m. Non-timecode spans are copied byte for byte; occurrence
// count and order are preserved. The whole document fails if any delayed
// value is negative or non-finite, so a caller never receives partially
// shifted text.
//
// Delayed values are floored to whole milliseconds, matching the original
// formatter's sub-millisecond truncation.
func Rewrite(doc string, m delay.Model) (string, error) {
	spans := timecode.Occurrences(doc)
	if len(spans) == 0 {
		return doc, nil
	}

	var out strings.Builder
	out.Grow(len(doc))

	prev := 0
	for i, span := range spans {
		ms, err := timecode.Parse(doc[span.Start:span.End])
		if err != nil {
			return "", fmt.Errorf("timecode %d: %w", i+1, err)
		}

		delayed := m.Apply(ms)
		if math.IsNaN(delayed) || math.IsInf(delayed, 0) {
			return "", fmt.Errorf("timecode %d (%d ms): delayed value is not representable", i+1, ms)
		}

		text, err := timecode.Format(int64(math.Floor(delayed)))
		if err != nil {
			// The guard checks only the first cue's constant delay,
			// so growth can still drive a later cue negative; fail
			// the document rather than write corrupt output.
			return "", fmt.Errorf("timecode %d (%d ms): %w", i+1, ms, err)
		}

		out.WriteString(doc[prev:span.Start])
		out.WriteString(text)
		prev = span.End
	}
	out.WriteString(doc[prev:])

	return out.String(), nil
}

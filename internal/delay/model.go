package delay

import "math"

// Model is an immutable delay curve: a signed initial delay in milliseconds
// and a multiplicative growth factor applied per elapsed subtitle
// millisecond. Construct one directly from user-supplied values or fit one
// with Estimator.
type Model struct {
	InitialDelay float64
	Growth       float64
}

// Constant returns a model that applies the same delay everywhere.
func Constant(delayMs float64) Model {
	return Model{InitialDelay: delayMs, Growth: 1.0}
}

// Apply returns the delayed time for a subtitle timestamp:
//
//	subtitleMs + InitialDelay * Growth^subtitleMs
//
// The function is pure and never fails. For growth factors far from 1.0 the
// power term overflows float64 at large timestamps and the result becomes
// infinite; callers formatting the result must treat non-representable
// values as errors rather than masking them here.
func (m Model) Apply(subtitleMs int64) float64 {
	return float64(subtitleMs) + m.InitialDelay*math.Pow(m.Growth, float64(subtitleMs))
}

// Package delay models subtitle timing drift and fits that model from a pair
// of reference anchors.
//
// The adjustment applied to a cue is InitialDelay multiplied by Growth raised
// to the cue's own millisecond timestamp. A growth factor of exactly 1.0
// degenerates to a constant delay. The compounding shape approximates the
// drift produced by a frame-rate mismatch between the subtitle's assumed
// video and the actual one; it is a fitted approximation, not a physical
// model.
package delay

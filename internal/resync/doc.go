// Package resync rewrites every timecode in a subtitle document according to
// a delay model while leaving all other bytes untouched.
//
// The guard and the rewrite are both pure text operations; persistence is
// the caller's concern. A document that would end up with a negative
// timecode is rejected whole, never partially rewritten.
package resync

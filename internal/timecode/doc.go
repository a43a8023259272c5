// Package timecode parses, formats, and locates the fixed-width SRT timecode
// representation HH:MM:SS,mmm.
//
// Values are handled as non-negative millisecond counts since midnight of the
// document's timeline. Hours are not bounded to 24: long videos legitimately
// exceed 24:00:00, and values past 99 hours widen the hour field beyond two
// digits, the one case where the fixed-width shape is broken on output.
package timecode

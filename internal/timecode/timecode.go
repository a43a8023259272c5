package timecode

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks text that does not match the HH:MM:SS,mmm pattern.
	ErrMalformed = errors.New("malformed timecode")
	// ErrNegative marks a millisecond count below zero, which has no
	// representation in the format.
	ErrNegative = errors.New("negative timecode")
)

// PatternLength is the byte length of a canonical timecode below 100 hours.
const PatternLength = 12

// Parse converts fixed-width timecode text into a millisecond count.
// It accepts exactly two digits, colon, two digits, colon, two digits,
// comma, three digits; anything else fails with ErrMalformed.
func Parse(text string) (int64, error) {
	if len(text) != PatternLength {
		return 0, fmt.Errorf("%w: %q has length %d, want %d", ErrMalformed, text, len(text), PatternLength)
	}
	if !matchAt(text, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, text)
	}
	hours := digits2(text, 0)
	minutes := digits2(text, 3)
	seconds := digits2(text, 6)
	millis := digits3(text, 9)
	return ((hours*60+minutes)*60+seconds)*1000 + millis, nil
}

// Format renders a non-negative millisecond count as canonical timecode
// text. Hours are zero-padded to at least two digits and widen past 99.
func Format(ms int64) (string, error) {
	if ms < 0 {
		return "", fmt.Errorf("%w: %d ms", ErrNegative, ms)
	}
	millis := ms % 1000
	totalSeconds := ms / 1000
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis), nil
}

// matchAt reports whether text holds a well-formed timecode starting at
// offset i. The caller guarantees at least PatternLength bytes remain.
func matchAt(text string, i int) bool {
	for off, want := range patternShape {
		c := text[i+off]
		switch want {
		case 'd':
			if c < '0' || c > '9' {
				return false
			}
		default:
			if c != want {
				return false
			}
		}
	}
	return true
}

// patternShape encodes the fixed grammar: 'd' is an ASCII digit, anything
// else matches itself.
var patternShape = [PatternLength]byte{'d', 'd', ':', 'd', 'd', ':', 'd', 'd', ',', 'd', 'd', 'd'}

func digits2(text string, i int) int64 {
	return int64(text[i]-'0')*10 + int64(text[i+1]-'0')
}

func digits3(text string, i int) int64 {
	return int64(text[i]-'0')*100 + int64(text[i+1]-'0')*10 + int64(text[i+2]-'0')
}

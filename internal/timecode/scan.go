package timecode

// Span is the half-open byte range [Start, End) of one timecode occurrence
// inside a document.
type Span struct {
	Start int
	End   int
}

// Occurrences locates every well-formed timecode in text, in document order.
// Scanning is byte-exact and resumes after each match, mirroring leftmost
// non-overlapping regex semantics; no trailing boundary is required, so the
// first twelve bytes of a longer digit run still match.
func Occurrences(text string) []Span {
	var spans []Span
	for i := 0; i+PatternLength <= len(text); {
		if matchAt(text, i) {
			spans = append(spans, Span{Start: i, End: i + PatternLength})
			i += PatternLength
			continue
		}
		i++
	}
	return spans
}

// Count returns the number of timecode occurrences in text.
func Count(text string) int {
	return len(Occurrences(text))
}

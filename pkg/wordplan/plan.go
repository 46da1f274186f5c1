// Package wordplan loads and normalizes per-word timing plans: ordered
// sequences of {word, start, end} entries produced by transcription tools.
package wordplan

// Word is a single timed word (or phrase) entry. End is always strictly
// greater than Start for entries that pass validation.
type Word struct {
	Word  string  `json:"word" yaml:"word"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Merge collapses adjacent entries whose end time exactly equals the next
// entry's start time, joining the words with a single space. Words spoken
// contiguously end up in one entry covering the combined interval. The input
// slice is never mutated; merging an already-merged sequence returns an
// equal sequence.
func Merge(entries []Word) []Word {
	var merged []Word
	for _, entry := range entries {
		if n := len(merged); n > 0 && merged[n-1].End == entry.Start {
			merged[n-1].Word += " " + entry.Word
			merged[n-1].End = entry.End
			continue
		}
		merged = append(merged, entry)
	}
	return merged
}

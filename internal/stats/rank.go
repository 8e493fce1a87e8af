package stats

import "sort"

// RankEntry pairs a file with the value it is ranked by.
type RankEntry struct {
	Path  string
	Value float64
}

// Ranking collects per-file values for the top/bottom listings. Records
// whose value could not be parsed are never added.
type Ranking struct {
	entries []RankEntry
}

// Add records one file.
func (r *Ranking) Add(path string, value float64) {
	r.entries = append(r.entries, RankEntry{Path: path, Value: value})
}

// Len returns the number of ranked files.
func (r *Ranking) Len() int { return len(r.entries) }

// Sorted returns every entry, largest value first. Ties break on path so
// two runs over the same tree produce the same report.
func (r *Ranking) Sorted() []RankEntry {
	out := make([]RankEntry, len(r.entries))
	copy(out, r.entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Top returns the k largest entries.
func (r *Ranking) Top(k int) []RankEntry {
	s := r.Sorted()
	if k > len(s) {
		k = len(s)
	}
	return s[:k]
}

// Bottom returns the k smallest entries, still in descending order so the
// listing reads as one ladder.
func (r *Ranking) Bottom(k int) []RankEntry {
	s := r.Sorted()
	if k > len(s) {
		k = len(s)
	}
	return s[len(s)-k:]
}

package stats

import "sort"

// Counter tallies occurrences of string keys. Entries come back largest
// first with alphabetical tie-breaks, so report output is stable.
type Counter struct {
	counts map[string]int
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Inc adds one occurrence. Empty keys are dropped.
func (c *Counter) Inc(key string) {
	if key == "" {
		return
	}
	c.counts[key]++
}

// IncAll adds one occurrence per key.
func (c *Counter) IncAll(keys []string) {
	for _, k := range keys {
		c.Inc(k)
	}
}

// Get returns the count for key, zero when never seen.
func (c *Counter) Get(key string) int { return c.counts[key] }

// Len returns the number of distinct keys.
func (c *Counter) Len() int { return len(c.counts) }

// Total returns the sum of all counts.
func (c *Counter) Total() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

// Entry is one counted key.
type Entry struct {
	Key   string
	Count int
}

// Entries returns every key sorted by count descending, then key.
func (c *Counter) Entries() []Entry {
	out := make([]Entry, 0, len(c.counts))
	for k, n := range c.counts {
		out = append(out, Entry{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

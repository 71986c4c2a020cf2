// Package freqindex builds a frequency index over a tabular dataset and
// answers substring queries against it. The index maps every normalized
// cell value to its occurrence count and the sub-codes observed alongside
// it, and preserves first-seen insertion order so that substring queries
// are deterministic: the first key in scan order wins every tie.
package freqindex

import (
	"fmt"
	"strings"

	"github.com/auw2025/grouping/pkg/normalize"
	"github.com/auw2025/grouping/pkg/tabular"
)

// Entry holds the accumulated data for one normalized key.
type Entry struct {
	// Count is the number of times the key was observed. Counts are built
	// in a single pass and never decremented.
	Count int

	// SubCodes lists the sub-codes captured alongside the key, in
	// observation order, not deduplicated at capture time.
	SubCodes []string
}

// Index is a read-only frequency index once built. It is constructed by
// exactly one writer in a single pass over one dataset.
type Index struct {
	keys    []string // first-seen insertion order
	entries map[string]*Entry
}

// New returns an empty index.
func New() *Index {
	return &Index{entries: make(map[string]*Entry)}
}

// Build constructs an index in one pass over the dataset. Every cell value
// of every row is normalized; non-empty values increment their key's count.
// When a row's sub-code column carries a non-empty trimmed value, that
// value is appended to the key's sub-code list. Empty and absent cells are
// skipped; Build never fails.
func Build(ds *tabular.Dataset, subCodeColumn string) *Index {
	ix := New()
	if ds == nil {
		return ix
	}

	for _, row := range ds.Rows {
		subCode := strings.TrimSpace(row.Get(subCodeColumn))
		for _, col := range ds.Columns {
			value := normalize.Normalize(row.Get(col))
			if value == "" {
				continue
			}
			ix.Add(value, subCode)
		}
	}
	return ix
}

// Add records one observation of an already-normalized value, optionally
// carrying a sub-code. An empty sub-code records the count only.
func (ix *Index) Add(value, subCode string) {
	entry, ok := ix.entries[value]
	if !ok {
		entry = &Entry{}
		ix.entries[value] = entry
		ix.keys = append(ix.keys, value)
	}
	entry.Count++
	if subCode != "" {
		entry.SubCodes = append(entry.SubCodes, subCode)
	}
}

// Lookup returns the entry for an exact normalized key.
func (ix *Index) Lookup(key string) (*Entry, bool) {
	entry, ok := ix.entries[key]
	return entry, ok
}

// Keys returns the index keys in first-seen insertion order.
func (ix *Index) Keys() []string {
	return ix.keys
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	return len(ix.keys)
}

// MatchResult aggregates all index keys containing a queried substring.
// A zero-count result is the definitive "no match" signal, not an error.
type MatchResult struct {
	// Count is the sum of counts over all matching keys.
	Count int

	// Matches lists each matching key as "key (count)", in scan order.
	Matches []string

	// SubCodes is the deduplicated union of the matching keys' sub-codes,
	// in scan order.
	SubCodes []string
}

// FirstKey returns the first matching key in scan order, stripped of its
// "(count)" suffix, or "" when there were no matches.
func (m MatchResult) FirstKey() string {
	if len(m.Matches) == 0 {
		return ""
	}
	first := m.Matches[0]
	if i := strings.LastIndex(first, " ("); i >= 0 {
		return first[:i]
	}
	return first
}

// FindMatches scans every key in insertion order and aggregates those that
// contain the normalized query as a literal substring. The query undergoes
// the same normalization as index keys (hyphen strip only, case preserved).
func (ix *Index) FindMatches(substring string) MatchResult {
	query := normalize.Normalize(substring)

	var result MatchResult
	seen := make(map[string]bool)
	for _, key := range ix.keys {
		if !strings.Contains(key, query) {
			continue
		}
		entry := ix.entries[key]
		result.Count += entry.Count
		result.Matches = append(result.Matches, fmt.Sprintf("%s (%d)", key, entry.Count))
		for _, sc := range entry.SubCodes {
			if !seen[sc] {
				seen[sc] = true
				result.SubCodes = append(result.SubCodes, sc)
			}
		}
	}
	return result
}

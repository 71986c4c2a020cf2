// Package deferred implements the deferred reconciliation store: a
// multi-map from group prefix to the ordered list of unmatched grouping
// entries. Entries created by the first pass persist for the whole run and
// are consumed read-only by later, more specific searches; multiple entries
// legitimately share a group prefix and are never merged or deduplicated.
package deferred

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/auw2025/grouping/pkg/logging"
	"github.com/auw2025/grouping/pkg/normalize"
)

// Entry is one unmatched grouping candidate awaiting reconciliation.
type Entry struct {
	Group   string // leading token, e.g. "3A"
	Subject string // second token
	Teacher string // third token
	SubCode string // the row's current sub-code
}

// Grouping reassembles the display grouping text of the entry.
func (e Entry) Grouping() string {
	return e.Group + " " + e.Subject + " " + e.Teacher
}

// Store is the multi-map of deferred entries. Buckets are created on first
// use and keyed by group prefix; bucket contents keep insertion order.
type Store struct {
	order   []string // bucket keys in first-use order
	buckets map[string][]Entry
	logger  *zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		buckets: make(map[string][]Entry),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends an entry to the bucket keyed by its group. Existing buckets
// are never overwritten.
func (s *Store) Add(entry Entry) {
	if _, ok := s.buckets[entry.Group]; !ok {
		s.order = append(s.order, entry.Group)
	}
	s.buckets[entry.Group] = append(s.buckets[entry.Group], entry)

	s.logger.Debug().
		Str("group", entry.Group).
		Str("subject", entry.Subject).
		Str("teacher", entry.Teacher).
		Str("sub_code", entry.SubCode).
		Msg("deferred entry stored")
}

// Len returns the total number of stored entries.
func (s *Store) Len() int {
	n := 0
	for _, bucket := range s.buckets {
		n += len(bucket)
	}
	return n
}

// Groups returns the bucket keys in first-use order.
func (s *Store) Groups() []string {
	return s.order
}

// Entries returns the bucket for a group, in insertion order.
func (s *Store) Entries(group string) []Entry {
	return s.buckets[group]
}

// Search scans buckets in first-use order. A bucket qualifies when its
// key's first character equals form and the key contains classLetter.
// Within a qualifying bucket the first entry whose subject and teacher
// exactly equal the query's wins; the first match across the full scan
// order is returned.
func (s *Store) Search(form, classLetter, subject, teacher string) (Entry, bool) {
	for _, key := range s.order {
		if len(key) == 0 || string(key[0]) != form {
			continue
		}
		if classLetter != "" && !strings.Contains(key, classLetter) {
			continue
		}
		for _, entry := range s.buckets[key] {
			if entry.Subject == subject && entry.Teacher == teacher {
				s.logger.Debug().
					Str("group", entry.Group).
					Str("subject", subject).
					Str("teacher", teacher).
					Msg("deferred entry recovered")
				return entry, true
			}
		}
	}
	return Entry{}, false
}

// SelectByMarker returns, in scan order, every entry whose group contains
// exactly one digit and whose subject equals the given marker. This feeds
// the extended-subject candidate list for the final roster pass.
func (s *Store) SelectByMarker(marker string) []Entry {
	var selected []Entry
	for _, key := range s.order {
		if normalize.CountDigits(key) != 1 {
			continue
		}
		for _, entry := range s.buckets[key] {
			if entry.Subject == marker {
				selected = append(selected, entry)
			}
		}
	}
	return selected
}

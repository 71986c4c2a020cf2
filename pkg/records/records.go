// Package records assembles the canonical 9-field output records and
// enforces their emission preconditions. Records are immutable once built;
// the full output sequence is sorted once, case-insensitive lexicographic,
// before handoff to the sink.
package records

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/auw2025/grouping/pkg/codemap"
	"github.com/auw2025/grouping/pkg/errors"
	"github.com/auw2025/grouping/pkg/tabular"
)

// Default values for the constant record fields.
const (
	DefaultAcademicYear = "2324"
	DefaultTerm         = "1"
)

// Columns is the fixed serialization order the output collaborator expects.
var Columns = []string{
	"identifier",
	"a_year",
	"terms",
	"sub_code",
	"subject_code",
	"taking",
	"self_taking",
	"grouping",
	"grouping_real",
}

// OutputRecord is the canonical 9-field output row. Taking is always true,
// SelfTaking always false, and GroupingReal always equals Grouping.
type OutputRecord struct {
	Identifier   string
	AcademicYear string
	Term         string
	SubCode      string
	SubjectCode  string
	Taking       bool
	SelfTaking   bool
	Grouping     string
	GroupingReal string
}

// Row serializes the record into the output collaborator's column contract.
func (r OutputRecord) Row() tabular.Row {
	return tabular.Row{
		"identifier":    r.Identifier,
		"a_year":        r.AcademicYear,
		"terms":         r.Term,
		"sub_code":      r.SubCode,
		"subject_code":  r.SubjectCode,
		"taking":        formatBool(r.Taking),
		"self_taking":   formatBool(r.SelfTaking),
		"grouping":      r.Grouping,
		"grouping_real": r.GroupingReal,
	}
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Builder assembles output records with the run's constant fields.
type Builder struct {
	academicYear string
	term         string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithAcademicYear overrides the constant academic-year field.
func WithAcademicYear(year string) BuilderOption {
	return func(b *Builder) {
		b.academicYear = year
	}
}

// WithTerm overrides the constant term field.
func WithTerm(term string) BuilderOption {
	return func(b *Builder) {
		b.term = term
	}
}

// NewBuilder returns a builder with the default constants.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		academicYear: DefaultAcademicYear,
		term:         DefaultTerm,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles a record from a resolution and a grouping string.
// Emission requires both codes non-empty; otherwise the row must be
// withheld, and Build returns a validation error carrying the reason.
func (b *Builder) Build(identifier string, code codemap.ResolvedCode, grouping string) (OutputRecord, error) {
	if code.SubCode == "" {
		return OutputRecord{}, errors.NewValidationError("sub_code", code.SubCode, "cannot be empty")
	}
	if code.SubjectCode == "" {
		return OutputRecord{}, errors.NewValidationError("subject_code", code.SubjectCode, "cannot be empty")
	}

	return OutputRecord{
		Identifier:   identifier,
		AcademicYear: b.academicYear,
		Term:         b.term,
		SubCode:      code.SubCode,
		SubjectCode:  code.SubjectCode,
		Taking:       true,
		SelfTaking:   false,
		Grouping:     grouping,
		GroupingReal: grouping,
	}, nil
}

// collator compares case-insensitively, matching the sink's expected order.
func collator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// SortByGrouping sorts records case-insensitive lexicographic by grouping
// text. The sort is stable so equal keys keep build order.
func SortByGrouping(records []OutputRecord) {
	c := collator()
	sort.SliceStable(records, func(i, j int) bool {
		return c.CompareString(records[i].Grouping, records[j].Grouping) < 0
	})
}

// SortByIdentifier sorts records case-insensitive lexicographic by
// identifier.
func SortByIdentifier(records []OutputRecord) {
	c := collator()
	sort.SliceStable(records, func(i, j int) bool {
		return c.CompareString(records[i].Identifier, records[j].Identifier) < 0
	})
}

// Rows serializes a record sequence in order.
func Rows(recs []OutputRecord) []tabular.Row {
	rows := make([]tabular.Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, r.Row())
	}
	return rows
}

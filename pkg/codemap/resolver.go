package codemap

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/auw2025/grouping/pkg/logging"
	"github.com/auw2025/grouping/pkg/tabular"
)

// MatchKind records which kind of strategy produced a resolution, for
// diagnostics.
type MatchKind string

const (
	// MatchOverride is a hit in the DSE or historical-subject tables.
	MatchOverride MatchKind = "override"
	// MatchSpecialCase is a hit in the special exact-candidate tables.
	MatchSpecialCase MatchKind = "special-case"
	// MatchExact is an exact value match in the reference table.
	MatchExact MatchKind = "exact"
	// MatchContains is a substring match in the reference table.
	MatchContains MatchKind = "substring-contains"
	// MatchDeferred is a recovery from the deferred store.
	MatchDeferred MatchKind = "deferred"
	// MatchIndex is a recovery from the frequency index.
	MatchIndex MatchKind = "index"
	// MatchNone means the strategy chain was exhausted.
	MatchNone MatchKind = "none"
)

// ResolvedCode is the outcome of resolving one candidate.
type ResolvedCode struct {
	SubCode     string
	SubjectCode string
	Kind        MatchKind
}

// Resolved reports whether both codes are present.
func (rc ResolvedCode) Resolved() bool {
	return rc.SubCode != "" && rc.SubjectCode != ""
}

// Query carries everything a strategy may inspect when resolving one
// candidate.
type Query struct {
	// Grouping is the full source grouping text the candidate came from.
	Grouping string
	// Candidate is the derived candidate token, post generic-rename.
	Candidate string
}

// Strategy is one pure override rule: given a query it either fires,
// returning a resolution, or declines. Strategies are tried in fixed
// priority order; the first to fire short-circuits the rest.
type Strategy struct {
	Name  string
	Apply func(Query) (ResolvedCode, bool)
}

// Resolver applies the ordered strategy chain over a table set and a
// reference dataset. A Resolver is immutable once constructed; resolving
// the same grouping twice with the same tables yields the same result.
type Resolver struct {
	tables     *Tables
	reference  *tabular.Dataset
	subCodeCol string
	subjectCol string
	strategies []Strategy
	logger     *zerolog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used for resolution events.
func WithLogger(logger *zerolog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithColumns overrides the reference table column names (defaults
// "sub_code" and "subject_code").
func WithColumns(subCode, subjectCode string) ResolverOption {
	return func(r *Resolver) {
		r.subCodeCol = subCode
		r.subjectCol = subjectCode
	}
}

// NewResolver builds a resolver over the given tables and reference
// dataset.
func NewResolver(tables *Tables, reference *tabular.Dataset, opts ...ResolverOption) *Resolver {
	if tables == nil {
		tables = DefaultTables()
	}
	r := &Resolver{
		tables:     tables,
		reference:  reference,
		subCodeCol: "sub_code",
		subjectCol: "subject_code",
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.strategies = []Strategy{
		{Name: "dse-override", Apply: r.applyDSE},
		{Name: "special-pair", Apply: r.applySpecialPair},
		{Name: "special-sub-code", Apply: r.applySpecialSubCode},
		{Name: "historical-subject", Apply: r.applyHistorical},
		{Name: "reference-lookup", Apply: r.applyReference},
	}
	return r
}

// Tables returns the table set the resolver was built with.
func (r *Resolver) Tables() *Tables {
	return r.tables
}

// Resolve derives the canonical codes for a candidate taken from the given
// grouping text. The generic-rename table is applied first, then the
// strategy chain in priority order. An exhausted chain yields a ResolvedCode
// with empty codes and MatchNone; that is a definitive outcome, not an
// error.
func (r *Resolver) Resolve(grouping, candidate string) ResolvedCode {
	renamed := r.tables.RenameCandidate(candidate)
	if renamed != candidate {
		r.logger.Debug().
			Str("candidate", candidate).
			Str("renamed", renamed).
			Msg("generic rename applied")
	}

	query := Query{Grouping: grouping, Candidate: renamed}
	for _, strategy := range r.strategies {
		resolved, ok := strategy.Apply(query)
		if !ok {
			continue
		}
		r.logger.Debug().
			Str("grouping", grouping).
			Str("candidate", renamed).
			Str("strategy", strategy.Name).
			Str("match_kind", string(resolved.Kind)).
			Str("sub_code", resolved.SubCode).
			Str("subject_code", resolved.SubjectCode).
			Msg("candidate resolved")
		return resolved
	}

	r.logger.Debug().
		Str("grouping", grouping).
		Str("candidate", renamed).
		Msg("resolver chain exhausted")
	return ResolvedCode{Kind: MatchNone}
}

// applyDSE fires only when the grouping text contains the DSE marker and
// the candidate appears in the DSE table.
func (r *Resolver) applyDSE(q Query) (ResolvedCode, bool) {
	if !strings.Contains(q.Grouping, "DSE") {
		return ResolvedCode{}, false
	}
	subCode, ok := lookupFoldHyphen(r.tables.DSE, q.Candidate)
	if !ok {
		return ResolvedCode{}, false
	}
	return ResolvedCode{
		SubCode:     subCode,
		SubjectCode: r.SubjectFor(subCode),
		Kind:        MatchOverride,
	}, true
}

// applySpecialPair fires on exact candidates carrying a full fixed pair.
func (r *Resolver) applySpecialPair(q Query) (ResolvedCode, bool) {
	pair, ok := lookupPairFold(r.tables.SpecialPairs, q.Candidate)
	if !ok {
		return ResolvedCode{}, false
	}
	return ResolvedCode{
		SubCode:     pair.SubCode,
		SubjectCode: pair.SubjectCode,
		Kind:        MatchSpecialCase,
	}, true
}

// applySpecialSubCode fires on exact candidates with an override sub-code;
// the subject code still comes from the reference table.
func (r *Resolver) applySpecialSubCode(q Query) (ResolvedCode, bool) {
	subCode, ok := lookupFold(r.tables.SpecialSubCodes, q.Candidate)
	if !ok {
		return ResolvedCode{}, false
	}
	return ResolvedCode{
		SubCode:     subCode,
		SubjectCode: r.SubjectFor(subCode),
		Kind:        MatchSpecialCase,
	}, true
}

// applyHistorical checks the ordered historical-subject substring rules.
func (r *Resolver) applyHistorical(q Query) (ResolvedCode, bool) {
	for _, rule := range r.tables.Historical {
		if !strings.Contains(q.Candidate, rule.Contains) {
			continue
		}
		return ResolvedCode{
			SubCode:     rule.SubCode,
			SubjectCode: r.SubjectFor(rule.SubCode),
			Kind:        MatchOverride,
		}, true
	}
	return ResolvedCode{}, false
}

// applyReference scans the reference table's subject-code column in row
// order: the first exact value match wins; failing that, the first row
// whose value contains the candidate as a substring wins. First scan order
// always breaks ties; there is no scoring.
func (r *Resolver) applyReference(q Query) (ResolvedCode, bool) {
	if r.reference == nil || q.Candidate == "" {
		return ResolvedCode{}, false
	}

	for _, row := range r.reference.Rows {
		if row.Get(r.subjectCol) == q.Candidate {
			return ResolvedCode{
				SubCode:     row.Get(r.subCodeCol),
				SubjectCode: row.Get(r.subjectCol),
				Kind:        MatchExact,
			}, true
		}
	}
	for _, row := range r.reference.Rows {
		if strings.Contains(row.Get(r.subjectCol), q.Candidate) {
			return ResolvedCode{
				SubCode:     row.Get(r.subCodeCol),
				SubjectCode: row.Get(r.subjectCol),
				Kind:        MatchContains,
			}, true
		}
	}
	return ResolvedCode{}, false
}

// SubjectFor returns the subject code of the first reference row whose
// sub-code column equals subCode (case-insensitive), or "" when absent.
func (r *Resolver) SubjectFor(subCode string) string {
	if r.reference == nil || subCode == "" {
		return ""
	}
	for _, row := range r.reference.Rows {
		if strings.EqualFold(row.Get(r.subCodeCol), subCode) {
			return row.Get(r.subjectCol)
		}
	}
	return ""
}

// Package verify implements the two-level structural verification state
// machine over class-number/sub-code conventions. First-level verification
// checks that junior classes (form 1-3) carry non-D sub-codes and senior
// classes (form above 3) carry D-prefixed ones, applying a corrective
// override on violation. Second-level verification then unconditionally
// rewrites the current sub-code through a second static table.
package verify

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/auw2025/grouping/pkg/codemap"
	"github.com/auw2025/grouping/pkg/constants"
	"github.com/auw2025/grouping/pkg/logging"
	"github.com/auw2025/grouping/pkg/normalize"
)

// State tracks how far a row has progressed through verification.
type State int

const (
	// Unchecked is the initial state.
	Unchecked State = iota
	// FirstLevelChecked means the class-number rule has been applied.
	FirstLevelChecked
	// SecondLevelChecked is the terminal state.
	SecondLevelChecked
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case FirstLevelChecked:
		return "first-level-checked"
	case SecondLevelChecked:
		return "second-level-checked"
	default:
		return "unknown"
	}
}

// Result is the per-row verification outcome.
type Result struct {
	// Valid is false when the row violated a first-level rule.
	Valid bool
	// SubCode is the row's sub-code after both correction passes.
	SubCode string
	// State is the terminal verification state.
	State State
}

// Verifier runs both verification levels and keeps a running count of
// first-level-invalid rows.
type Verifier struct {
	tables       *codemap.Tables
	invalidCount int
	logger       *zerolog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger used for verification events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// New builds a verifier over the override tables.
func New(tables *codemap.Tables, opts ...Option) *Verifier {
	if tables == nil {
		tables = codemap.DefaultTables()
	}
	v := &Verifier{
		tables: tables,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify runs the full state machine for one row. First level: the leading
// integer of the class field must agree with the sub-code's D-prefix
// convention; a missing leading integer or a violated convention marks the
// row invalid and attempts the first-level override by sub-code. Second
// level always runs afterwards and operates on the sub-code left by first
// level, never the original.
func (v *Verifier) Verify(classField, subCode string) Result {
	subCode, valid := v.verifyFirstLevel(classField, subCode)
	if !valid {
		v.invalidCount++
	}

	subCode = v.verifySecondLevel(subCode)

	return Result{
		Valid:   valid,
		SubCode: subCode,
		State:   SecondLevelChecked,
	}
}

// verifyFirstLevel applies the class-number rule and, on violation, the
// first-level override table. The override applies whenever found,
// regardless of which rule made the row invalid.
func (v *Verifier) verifyFirstLevel(classField, subCode string) (string, bool) {
	classNumber, ok := normalize.LeadingInt(classField)
	if !ok {
		v.logger.Warn().
			Str("class", classField).
			Str("sub_code", subCode).
			Msg("class field has no leading integer")
		return v.overrideFirstLevel(subCode), false
	}

	hasD := strings.HasPrefix(subCode, "D") || strings.HasPrefix(subCode, "d")
	if (classNumber <= constants.JuniorFormMax && hasD) || (classNumber > constants.JuniorFormMax && !hasD) {
		v.logger.Warn().
			Str("class", classField).
			Int("class_number", classNumber).
			Str("sub_code", subCode).
			Msg("sub-code prefix violates class-number convention")
		return v.overrideFirstLevel(subCode), false
	}

	return subCode, true
}

// overrideFirstLevel looks the sub-code up in the first-level override
// table, case-insensitive, keeping the original when absent.
func (v *Verifier) overrideFirstLevel(subCode string) string {
	for key, replacement := range v.tables.FirstLevel {
		if strings.EqualFold(key, subCode) {
			v.logger.Info().
				Str("sub_code", subCode).
				Str("replacement", replacement).
				Msg("first-level override applied")
			return replacement
		}
	}
	return subCode
}

// verifySecondLevel unconditionally rewrites the current sub-code through
// the second-level table, case-insensitive.
func (v *Verifier) verifySecondLevel(subCode string) string {
	for key, replacement := range v.tables.SecondLevel {
		if strings.EqualFold(key, subCode) {
			v.logger.Info().
				Str("sub_code", subCode).
				Str("replacement", replacement).
				Msg("second-level override applied")
			return replacement
		}
	}
	return subCode
}

// InvalidCount returns the running count of first-level-invalid rows.
func (v *Verifier) InvalidCount() int {
	return v.invalidCount
}

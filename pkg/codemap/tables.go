// Package codemap resolves derived candidate tokens into canonical
// sub-codes and subject codes. Resolution is an ordered chain of override
// strategies applied by strict priority over a set of literal mapping
// tables. The tables encode the institution's course catalogue and are
// treated as opaque configuration data: they can be replaced wholesale
// from a YAML artifact but are never inferred or generalized.
package codemap

import (
	"strings"

	"github.com/auw2025/grouping/pkg/normalize"
)

// Pair is a fixed {sub_code, subject_code} override that bypasses the
// reference table entirely.
type Pair struct {
	SubCode     string `yaml:"sub_code"`
	SubjectCode string `yaml:"subject_code"`
}

// HistoricalRule maps candidates containing a literal fragment to a fixed
// sub-code. Rules are ordered: more specific fragments must precede the
// generic ones they contain.
type HistoricalRule struct {
	Contains string `yaml:"contains"`
	SubCode  string `yaml:"sub_code"`
}

// Tables holds every literal override table used by the resolver and the
// structural verifier. All lookups are case-insensitive on the key, and
// hyphen-insensitive where keys may carry hyphens. Tables are immutable
// for the duration of a run.
type Tables struct {
	// DSE maps derived codes to override sub-codes. The table only fires
	// when the source grouping text contains the "DSE" marker.
	DSE map[string]string `yaml:"dse"`

	// SpecialPairs maps exact candidates to fixed {sub_code, subject_code}
	// pairs, bypassing the reference table.
	SpecialPairs map[string]Pair `yaml:"special_pairs"`

	// SpecialSubCodes maps exact candidates to override sub-codes; the
	// subject code still comes from the reference table.
	SpecialSubCodes map[string]string `yaml:"special_sub_codes"`

	// Historical is the ordered list of historical-subject substring rules.
	Historical []HistoricalRule `yaml:"historical"`

	// Rename normalizes a handful of literal candidate spellings before
	// resolution.
	Rename map[string]string `yaml:"rename"`

	// Convert rewrites a raw sub-code wherever one is being prepared for
	// grouping or display. Identity outside its fixed keys.
	Convert map[string]string `yaml:"convert"`

	// FirstLevel is the corrective override applied by the structural
	// verifier when a row fails first-level verification, keyed by sub-code.
	FirstLevel map[string]string `yaml:"first_level"`

	// SecondLevel is the unconditional second-level replacement table,
	// keyed by the row's current (post first-level) sub-code.
	SecondLevel map[string]string `yaml:"second_level"`
}

// DefaultTables returns the built-in override tables. The entries are
// reproduced verbatim from the institution's catalogue.
func DefaultTables() *Tables {
	return &Tables{
		DSE: map[string]string{
			"DSE-PE1":  "DPED1",
			"DSE-PE2":  "DPED2",
			"DSE-APL1": "DAPL1",
		},
		SpecialPairs: map[string]Pair{
			"M2": {SubCode: "DMA21", SubjectCode: "DMATH2"},
		},
		SpecialSubCodes: map[string]string{
			"CHI": "CHN1",
			"IS":  "INSC",
		},
		// Most-specific variants before the generic "CHIST3".
		Historical: []HistoricalRule{
			{Contains: "CHIST1", SubCode: "DCHIS1"},
			{Contains: "CHIST2", SubCode: "DCHIS2"},
			{Contains: "CHIST3A", SubCode: "DCHIS3A"},
			{Contains: "CHIST3B", SubCode: "DCHIS3B"},
			{Contains: "CHIST3", SubCode: "DCHIS3"},
		},
		Rename: map[string]string{
			"MATHS": "MATH",
			"RSE":   "REGS",
			"L&S":   "LISO",
			"VA":    "VIAR",
			"PTH":   "PUTO",
		},
		Convert: map[string]string{
			"DCHIS1": "DCI11",
			"DCHIS3": "DCI31",
		},
		FirstLevel: map[string]string{
			"CHN1": "DCHN1",
			"ENG1": "DENG1",
			"MAT1": "DMA11",
		},
		SecondLevel: map[string]string{
			"DCHIS1": "DCI11",
			"DCHIS3": "DCI31",
		},
	}
}

// RenameCandidate applies the generic-rename table to a candidate spelling.
// Unknown candidates pass through unchanged.
func (t *Tables) RenameCandidate(candidate string) string {
	if renamed, ok := lookupFold(t.Rename, candidate); ok {
		return renamed
	}
	return candidate
}

// ConvertSubCode applies the sub-code conversion rule. The rule is
// idempotent and acts as identity outside its fixed keys.
func (t *Tables) ConvertSubCode(subCode string) string {
	if converted, ok := lookupFold(t.Convert, subCode); ok {
		return converted
	}
	return subCode
}

// lookupFold performs a case-insensitive key lookup.
func lookupFold(m map[string]string, key string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// lookupFoldHyphen performs a case- and hyphen-insensitive key lookup, for
// tables whose keys carry hyphens (the DSE table).
func lookupFoldHyphen(m map[string]string, key string) (string, bool) {
	want := normalize.StripHyphens(key)
	for k, v := range m {
		if strings.EqualFold(normalize.StripHyphens(k), want) {
			return v, true
		}
	}
	return "", false
}

// lookupPairFold performs a case-insensitive lookup in a pair table.
func lookupPairFold(m map[string]Pair, key string) (Pair, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return Pair{}, false
}

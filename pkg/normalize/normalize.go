// Package normalize canonicalizes raw roster and workload cell text before
// matching. Normalization is a matching-only transform: hyphens are stripped
// so that "M-2" and "M2" compare equal, but display text always keeps the
// original spelling.
package normalize

import (
	"strings"

	"github.com/auw2025/grouping/pkg/constants"
)

// Normalize canonicalizes a raw cell value for matching: leading and
// trailing whitespace is trimmed, internal whitespace runs collapse to a
// single space, and, if the value contains a hyphen, all hyphens are
// removed. Normalize is idempotent.
func Normalize(raw string) string {
	s := Collapse(raw)
	if strings.Contains(s, "-") {
		s = strings.ReplaceAll(s, "-", "")
	}
	return s
}

// Collapse trims the value and collapses internal whitespace runs to one
// space, without touching hyphens. This is the display form of a token.
func Collapse(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// StripHyphens removes every hyphen from s. Used when deriving a matching
// candidate from a single token.
func StripHyphens(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// Tokenize splits s on whitespace into an ordered sequence of tokens.
// Empty input yields an empty (nil) sequence.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

// LeadingInt parses the leading digit run of s. The second return value is
// false when s has no leading digits.
func LeadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n := 0
	for _, c := range s[:i] {
		n = n*10 + int(c-'0')
	}
	return n, true
}

// IsEligible reports whether a class field is eligible for reconciliation:
// tokenization must yield exactly 3 tokens and the first token's leading
// digit run must parse to a form number in [1,6]. A missing or non-numeric
// leading run makes the field ineligible.
func IsEligible(classField string) bool {
	tokens := Tokenize(classField)
	if len(tokens) != constants.EligibleTokenCount {
		return false
	}
	form, ok := LeadingInt(tokens[0])
	if !ok {
		return false
	}
	return form >= constants.MinFormLevel && form <= constants.MaxFormLevel
}

// ExtractLeadingGroup returns the first token of s verbatim (e.g. "1J"),
// or "" when s has no tokens.
func ExtractLeadingGroup(s string) string {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// CountDigits returns the number of ASCII digits in s.
func CountDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

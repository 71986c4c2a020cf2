package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "6MJPWT2 MATHS SUW", "6MJPWT2 MATHS SUW"},
		{"trims", "  1J CHI ABC  ", "1J CHI ABC"},
		{"collapses runs", "1J   CHI \t ABC", "1J CHI ABC"},
		{"strips hyphens", "DSE-PE1", "DSEPE1"},
		{"strips all hyphens", "M-2-X", "M2X"},
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"6MJPWT2 MATHS SUW",
		"  DSE-PE1  ",
		"1J   CHI ABC",
		"",
		"M-2",
		"a - b - c",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", in)
	}
}

func TestCollapseKeepsHyphens(t *testing.T) {
	assert.Equal(t, "DSE-PE1 XYZ", Collapse("  DSE-PE1   XYZ "))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"6MJPWT2", "MATHS", "SUW"}, Tokenize("6MJPWT2 MATHS SUW"))
	assert.Empty(t, Tokenize("   "))
	assert.Empty(t, Tokenize(""))
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"1J", 1, true},
		{"6MJPWT2", 6, true},
		{"12AB", 12, true},
		{"7Z", 7, true},
		{"J1", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := LeadingInt(tt.input)
		assert.Equal(t, tt.wantOK, ok, "LeadingInt(%q) ok", tt.input)
		assert.Equal(t, tt.want, got, "LeadingInt(%q)", tt.input)
	}
}

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"three tokens form 6", "6MJPWT2 MATHS SUW", true},
		{"three tokens form 1", "1J CHI ABC", true},
		{"form above range", "7Z PHY NEW", false},
		{"form zero", "0A BIO XYZ", false},
		{"no leading digits", "JA CHI ABC", false},
		{"two tokens", "M2 SUW", false},
		{"four tokens", "1J CHI ABC EXTRA", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEligible(tt.input))
		})
	}
}

func TestExtractLeadingGroup(t *testing.T) {
	assert.Equal(t, "1J", ExtractLeadingGroup("1J CHI ABC"))
	assert.Equal(t, "6MJPWT2", ExtractLeadingGroup("  6MJPWT2 MATHS SUW"))
	assert.Equal(t, "", ExtractLeadingGroup("   "))
}

func TestCountDigits(t *testing.T) {
	assert.Equal(t, 1, CountDigits("3A"))
	assert.Equal(t, 2, CountDigits("6MJPWT2"))
	assert.Equal(t, 0, CountDigits("ABC"))
}

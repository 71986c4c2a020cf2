package codemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameCandidate(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		input string
		want  string
	}{
		{"MATHS", "MATH"},
		{"maths", "MATH"}, // case-insensitive on the key
		{"RSE", "REGS"},
		{"L&S", "LISO"},
		{"VA", "VIAR"},
		{"PTH", "PUTO"},
		{"MATH", "MATH"}, // pass-through
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tables.RenameCandidate(tt.input), tt.input)
	}
}

func TestConvertSubCode(t *testing.T) {
	tables := DefaultTables()

	assert.Equal(t, "DCI11", tables.ConvertSubCode("DCHIS1"))
	assert.Equal(t, "DCI31", tables.ConvertSubCode("DCHIS3"))
	assert.Equal(t, "PHY1", tables.ConvertSubCode("PHY1"))
	assert.Equal(t, "", tables.ConvertSubCode(""))
}

func TestConvertSubCodeIdempotent(t *testing.T) {
	tables := DefaultTables()

	inputs := []string{"DCHIS1", "DCHIS3", "DCI11", "CHN1", ""}
	for _, in := range inputs {
		once := tables.ConvertSubCode(in)
		assert.Equal(t, once, tables.ConvertSubCode(once), "ConvertSubCode must be idempotent for %q", in)
	}
}

func TestParseTablesOverlay(t *testing.T) {
	data := []byte(`
rename:
  PHYS: PHY
special_pairs:
  M2:
    sub_code: DMA21
    subject_code: DMATH2
  M1:
    sub_code: DMA31
    subject_code: DMATH1
`)
	tables, err := ParseTables(data)
	require.NoError(t, err)

	// Overridden sections replace the defaults wholesale.
	assert.Equal(t, "PHY", tables.RenameCandidate("PHYS"))
	assert.Equal(t, "MATHS", tables.RenameCandidate("MATHS"), "replaced rename table drops default entries")

	pair, ok := lookupPairFold(tables.SpecialPairs, "M1")
	require.True(t, ok)
	assert.Equal(t, "DMA31", pair.SubCode)

	// Untouched sections keep their defaults.
	assert.Equal(t, "DCI11", tables.ConvertSubCode("DCHIS1"))
	assert.Equal(t, "DPED1", tables.DSE["DSE-PE1"])
}

func TestParseTablesInvalidYAML(t *testing.T) {
	_, err := ParseTables([]byte("rename: [not a map"))
	assert.Error(t, err)
}

func TestFormatYAMLRoundTrips(t *testing.T) {
	tables := DefaultTables()
	out := tables.FormatYAML()
	require.NotEmpty(t, out)

	parsed, err := ParseTables([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, tables.DSE, parsed.DSE)
	assert.Equal(t, tables.Historical, parsed.Historical)
	assert.Equal(t, tables.SecondLevel, parsed.SecondLevel)
}

func TestLookupFoldHyphen(t *testing.T) {
	m := map[string]string{"DSE-PE1": "DPED1"}

	got, ok := lookupFoldHyphen(m, "DSEPE1")
	require.True(t, ok)
	assert.Equal(t, "DPED1", got)

	got, ok = lookupFoldHyphen(m, "dse-pe1")
	require.True(t, ok)
	assert.Equal(t, "DPED1", got)

	_, ok = lookupFoldHyphen(m, "DSEPE2")
	assert.False(t, ok)
}

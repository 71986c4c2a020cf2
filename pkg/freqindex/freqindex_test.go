package freqindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auw2025/grouping/pkg/tabular"
)

func workloadDataset() *tabular.Dataset {
	return &tabular.Dataset{
		Columns: []string{"grouping", "sub_code"},
		Rows: []tabular.Row{
			{"grouping": "6MJPWT2 MATHS SUW", "sub_code": "DMA11"},
			{"grouping": "6MJPWT2 MATHS SUW", "sub_code": "DMA11"},
			{"grouping": "1J CHI ABC", "sub_code": "CHN1"},
			{"grouping": "3A CHI NEW", "sub_code": ""},
			{"grouping": "", "sub_code": "IGNORED"}, // empty cell skipped
		},
	}
}

func TestBuildCountsAndSubCodes(t *testing.T) {
	ix := Build(workloadDataset(), "sub_code")

	entry, ok := ix.Lookup("6MJPWT2 MATHS SUW")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Count)
	// Sub-codes are captured per observation, not deduplicated.
	assert.Equal(t, []string{"DMA11", "DMA11"}, entry.SubCodes)

	entry, ok = ix.Lookup("3A CHI NEW")
	require.True(t, ok)
	assert.Equal(t, 1, entry.Count)
	assert.Empty(t, entry.SubCodes)
}

func TestBuildSkipsEmptyCellsAndIndexesSubCodeColumn(t *testing.T) {
	ix := Build(workloadDataset(), "sub_code")

	// The empty grouping cell never became a key.
	_, ok := ix.Lookup("")
	assert.False(t, ok)

	// Sub-code cells are cell values too, so they get their own keys.
	entry, ok := ix.Lookup("DMA11")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Count)
}

func TestBuildNilDataset(t *testing.T) {
	ix := Build(nil, "sub_code")
	assert.Equal(t, 0, ix.Len())
}

func TestKeysPreserveInsertionOrder(t *testing.T) {
	ix := New()
	ix.Add("B", "")
	ix.Add("A", "")
	ix.Add("B", "")
	ix.Add("C", "")

	assert.Equal(t, []string{"B", "A", "C"}, ix.Keys())
}

func TestFindMatches(t *testing.T) {
	ix := Build(workloadDataset(), "sub_code")

	result := ix.FindMatches("CHI")
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []string{"1J CHI ABC (1)", "3A CHI NEW (1)"}, result.Matches)
	assert.Equal(t, []string{"CHN1"}, result.SubCodes)
}

func TestFindMatchesCountLaw(t *testing.T) {
	// findMatches(s).count equals the sum of counts over all keys
	// containing normalize(s).
	ix := Build(workloadDataset(), "sub_code")

	result := ix.FindMatches("MATHS")
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []string{"6MJPWT2 MATHS SUW (2)"}, result.Matches)
	assert.Equal(t, []string{"DMA11"}, result.SubCodes)
}

func TestFindMatchesNormalizesQuery(t *testing.T) {
	ix := New()
	ix.Add("DSEPE1 GROUP", "DPED1")

	// Hyphen-stripped query matches the hyphen-stripped key.
	result := ix.FindMatches("DSE-PE1")
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []string{"DPED1"}, result.SubCodes)
}

func TestFindMatchesCasePreserved(t *testing.T) {
	ix := New()
	ix.Add("1J CHI ABC", "CHN1")

	// Matching is case-sensitive; only hyphens are normalized away.
	assert.Equal(t, 0, ix.FindMatches("chi").Count)
}

func TestFindMatchesNoMatchIsZeroValue(t *testing.T) {
	ix := Build(workloadDataset(), "sub_code")

	result := ix.FindMatches("NOSUCH")
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.SubCodes)
}

func TestFindMatchesEmptyIndex(t *testing.T) {
	assert.Equal(t, 0, New().FindMatches("ANY").Count)
}

func TestMatchResultFirstKey(t *testing.T) {
	ix := New()
	ix.Add("3A CHI NEW", "CHN1")
	ix.Add("3A CHI NEW", "CHN1")
	ix.Add("3B CHI OLD", "CHN1")

	assert.Equal(t, "3A CHI NEW", ix.FindMatches("3A CHI NEW").FirstKey())
	assert.Equal(t, "3A CHI NEW", ix.FindMatches("CHI").FirstKey())
	assert.Equal(t, "", ix.FindMatches("NOSUCH").FirstKey())
}

func TestFindMatchesDeduplicatesSubCodesAcrossKeys(t *testing.T) {
	ix := New()
	ix.Add("1J CHI ABC", "CHN1")
	ix.Add("1K CHI DEF", "CHN1")
	ix.Add("1K CHI DEF", "CHN2")

	result := ix.FindMatches("CHI")
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, []string{"CHN1", "CHN2"}, result.SubCodes)
}

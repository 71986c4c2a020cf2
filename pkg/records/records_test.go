package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auw2025/grouping/pkg/codemap"
	"github.com/auw2025/grouping/pkg/errors"
)

func TestBuild(t *testing.T) {
	b := NewBuilder()

	rec, err := b.Build("S001", codemap.ResolvedCode{
		SubCode:     "DMA11",
		SubjectCode: "DMATH",
		Kind:        codemap.MatchContains,
	}, "6MJPWT2 MATHS SUW")
	require.NoError(t, err)

	assert.Equal(t, "S001", rec.Identifier)
	assert.Equal(t, DefaultAcademicYear, rec.AcademicYear)
	assert.Equal(t, DefaultTerm, rec.Term)
	assert.True(t, rec.Taking)
	assert.False(t, rec.SelfTaking)
	assert.Equal(t, "6MJPWT2 MATHS SUW", rec.Grouping)
	assert.Equal(t, rec.Grouping, rec.GroupingReal)
}

func TestBuildWithholdsEmptyCodes(t *testing.T) {
	b := NewBuilder()

	_, err := b.Build("S001", codemap.ResolvedCode{SubjectCode: "DMATH"}, "X")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	_, err = b.Build("S001", codemap.ResolvedCode{SubCode: "DMA11"}, "X")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestBuilderOptions(t *testing.T) {
	b := NewBuilder(WithAcademicYear("2425"), WithTerm("2"))

	rec, err := b.Build("S001", codemap.ResolvedCode{SubCode: "A", SubjectCode: "B"}, "G")
	require.NoError(t, err)
	assert.Equal(t, "2425", rec.AcademicYear)
	assert.Equal(t, "2", rec.Term)
}

func TestRowSerialization(t *testing.T) {
	rec := OutputRecord{
		Identifier:   "S001",
		AcademicYear: "2324",
		Term:         "1",
		SubCode:      "CHN1",
		SubjectCode:  "CHIN",
		Taking:       true,
		SelfTaking:   false,
		Grouping:     "1J CHI ABC",
		GroupingReal: "1J CHI ABC",
	}

	row := rec.Row()
	for _, col := range Columns {
		_, ok := row[col]
		assert.True(t, ok, "row must carry column %q", col)
	}
	assert.Equal(t, "1", row["taking"])
	assert.Equal(t, "0", row["self_taking"])
	assert.Equal(t, row["grouping"], row["grouping_real"])
}

func TestSortByGroupingCaseInsensitive(t *testing.T) {
	recs := []OutputRecord{
		{Grouping: "b group"},
		{Grouping: "A group"},
		{Grouping: "C group"},
		{Grouping: "a group"},
	}
	SortByGrouping(recs)

	assert.Equal(t, "A group", recs[0].Grouping)
	assert.Equal(t, "a group", recs[1].Grouping)
	assert.Equal(t, "b group", recs[2].Grouping)
	assert.Equal(t, "C group", recs[3].Grouping)
}

func TestSortByGroupingStable(t *testing.T) {
	recs := []OutputRecord{
		{Grouping: "same", SubCode: "first"},
		{Grouping: "SAME", SubCode: "second"},
	}
	SortByGrouping(recs)
	assert.Equal(t, "first", recs[0].SubCode)
	assert.Equal(t, "second", recs[1].SubCode)
}

func TestSortByIdentifier(t *testing.T) {
	recs := []OutputRecord{
		{Identifier: "s100"},
		{Identifier: "S002"},
		{Identifier: "S001"},
	}
	SortByIdentifier(recs)
	assert.Equal(t, "S001", recs[0].Identifier)
	assert.Equal(t, "S002", recs[1].Identifier)
	assert.Equal(t, "s100", recs[2].Identifier)
}

func TestRows(t *testing.T) {
	recs := []OutputRecord{
		{Identifier: "S001", Grouping: "G1", GroupingReal: "G1"},
		{Identifier: "S002", Grouping: "G2", GroupingReal: "G2"},
	}
	rows := Rows(recs)
	require.Len(t, rows, 2)
	assert.Equal(t, "S001", rows[0]["identifier"])
	assert.Equal(t, "G2", rows[1]["grouping"])
}

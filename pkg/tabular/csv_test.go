package tabular

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auw2025/grouping/pkg/errors"
)

func TestReadCSVFrom(t *testing.T) {
	input := "grouping,sub_code\n" +
		"6MJPWT2 MATHS SUW,DMA11\n" +
		"1J CHI ABC,CHN1\n" +
		"ragged row\n"

	ds, err := ReadCSVFrom(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"grouping", "sub_code"}, ds.Columns)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "6MJPWT2 MATHS SUW", ds.Rows[0].Get("grouping"))
	assert.Equal(t, "DMA11", ds.Rows[0].Get("sub_code"))

	// Ragged rows pad missing cells with the canonical empty string.
	assert.Equal(t, "ragged row", ds.Rows[2].Get("grouping"))
	assert.Equal(t, "", ds.Rows[2].Get("sub_code"))

	// Absent columns also read as "".
	assert.Equal(t, "", ds.Rows[0].Get("no_such_column"))
}

func TestReadCSVFromEmpty(t *testing.T) {
	ds, err := ReadCSVFrom(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestReadCSVMissingFileIsFatal(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))

	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Operation)
}

func TestWriteCSVTo(t *testing.T) {
	columns := []string{"identifier", "sub_code", "grouping"}
	rows := []Row{
		{"identifier": "S001", "sub_code": "CHN1", "grouping": "1J CHI ABC"},
		{"identifier": "S002", "sub_code": "DMA21"}, // missing cell serializes as ""
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSVTo(&buf, columns, rows))

	want := "identifier,sub_code,grouping\n" +
		"S001,CHN1,1J CHI ABC\n" +
		"S002,DMA21,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	columns := []string{"a", "b"}
	rows := []Row{{"a": "1", "b": "x y"}, {"a": "2", "b": ""}}

	require.NoError(t, WriteCSV(path, columns, rows))

	ds, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, columns, ds.Columns)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "x y", ds.Rows[0].Get("b"))
	assert.Equal(t, "", ds.Rows[1].Get("b"))
}

func TestWriteCSVCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.csv")
	columns := []string{"a"}
	rows := []Row{{"a": "1"}}

	require.NoError(t, WriteCSV(path, columns, rows))

	ds, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestHasColumn(t *testing.T) {
	ds := &Dataset{Columns: []string{"Form", "Class", "TSSSID"}}
	assert.True(t, ds.HasColumn("Form"))
	assert.False(t, ds.HasColumn("form"))

	var nilDS *Dataset
	assert.False(t, nilDS.HasColumn("Form"))
	assert.Equal(t, 0, nilDS.Len())
}

package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/auw2025/grouping/pkg/constants"
	"github.com/auw2025/grouping/pkg/errors"
)

// ReadCSV reads a CSV artifact into a Dataset. The first record is the
// header; every subsequent record becomes a Row keyed by header name.
// Short records pad missing cells with "". Any read failure is fatal.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	ds, err := ReadCSVFrom(f)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ds, nil
}

// ReadCSVFrom reads CSV data from r into a Dataset.
func ReadCSVFrom(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; missing cells become ""

	header, err := reader.Read()
	if err == io.EOF {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// WriteCSV writes a dataset to a CSV artifact in the given column order,
// creating the parent directory if needed. The artifact is written
// atomically from the caller's point of view: any failure surfaces as a
// fatal IOError and the run must not continue.
func WriteCSV(path string, columns []string, rows []Row) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	if err := WriteCSVTo(f, columns, rows); err != nil {
		f.Close()
		return errors.WrapIO("write", path, err)
	}

	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}

// WriteCSVTo writes rows to w in the given column order.
func WriteCSVTo(w io.Writer, columns []string, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

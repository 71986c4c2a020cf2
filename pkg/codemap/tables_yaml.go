package codemap

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/auw2025/grouping/pkg/errors"
)

// LoadTables reads a replacement table set from a YAML artifact. Sections
// absent from the file keep their built-in defaults, so a host can override
// a single table without restating the whole catalogue.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ParseTables(data)
}

// ParseTables parses a YAML table set, overlaying it on the defaults.
func ParseTables(data []byte) (*Tables, error) {
	var overlay Tables
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, errors.NewParseError("yaml", "", err.Error(), err)
	}

	tables := DefaultTables()
	if overlay.DSE != nil {
		tables.DSE = overlay.DSE
	}
	if overlay.SpecialPairs != nil {
		tables.SpecialPairs = overlay.SpecialPairs
	}
	if overlay.SpecialSubCodes != nil {
		tables.SpecialSubCodes = overlay.SpecialSubCodes
	}
	if overlay.Historical != nil {
		tables.Historical = overlay.Historical
	}
	if overlay.Rename != nil {
		tables.Rename = overlay.Rename
	}
	if overlay.Convert != nil {
		tables.Convert = overlay.Convert
	}
	if overlay.FirstLevel != nil {
		tables.FirstLevel = overlay.FirstLevel
	}
	if overlay.SecondLevel != nil {
		tables.SecondLevel = overlay.SecondLevel
	}
	return tables, nil
}

// FormatYAML renders the effective tables as YAML, for the tables command.
func (t *Tables) FormatYAML() string {
	data, err := yaml.MarshalWithOptions(t, yaml.Indent(2))
	if err != nil {
		return ""
	}
	return string(data)
}

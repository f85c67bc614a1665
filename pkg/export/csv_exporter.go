package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

const utf8BOM = "\ufeff"

// CSVExporter writes datasets as spreadsheet-friendly CSV.
type CSVExporter struct {
	// BOM prefixes the body with a UTF-8 byte order mark so spreadsheet apps
	// decode non-ASCII subject and department names.
	BOM bool
}

// NewCSVExporter builds a CSV exporter that writes a byte order mark.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{BOM: true}
}

// Render writes the header row and one record per row. Blank cells become
// data.Blank and text that a spreadsheet would evaluate is escaped.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	if e.BOM {
		buf.WriteString(utf8BOM)
	}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for n, row := range data.Rows {
		for i, header := range data.Headers {
			value, filled := data.cell(row, header)
			if filled {
				value = escapeFormula(value)
			}
			record[i] = value
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", n+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// escapeFormula prefixes an apostrophe to values starting with a formula trigger.
func escapeFormula(v string) string {
	switch v[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + v
	}
	return v
}

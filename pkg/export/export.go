package export

import (
	"fmt"
	"strings"
)

// Format names a supported export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Dataset defines tabular export content. Rows are keyed by header.
// Blank is written in place of empty cells.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
	Blank   string
}

// cell returns the value under header and whether it was non-blank.
func (d Dataset) cell(row map[string]string, header string) (string, bool) {
	v := strings.TrimSpace(row[header])
	if v == "" {
		return d.Blank, false
	}
	return v, true
}

// Document is a rendered export ready to stream.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ParseFormat normalises a user supplied format, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// Render encodes data in the requested format. basename is used for the file name.
func Render(format Format, basename string, data Dataset) (*Document, error) {
	switch format {
	case FormatCSV:
		body, err := NewCSVExporter().Render(data)
		if err != nil {
			return nil, err
		}
		return &Document{Filename: basename + ".csv", ContentType: "text/csv; charset=utf-8", Body: body}, nil
	case FormatPDF:
		body, err := NewPDFExporter().Render(data)
		if err != nil {
			return nil, err
		}
		return &Document{Filename: basename + ".pdf", ContentType: "application/pdf", Body: body}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

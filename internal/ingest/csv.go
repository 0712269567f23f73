package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMissingHeader reports an input without a header line.
	ErrMissingHeader = errors.New("csv header missing")
	// ErrMalformedCSV reports an input that cannot be read as CSV.
	ErrMalformedCSV = errors.New("malformed csv")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a whole CSV export into rows keyed by lower-cased, trimmed
// header names. The delimiter (comma or semicolon) is detected from the
// header line. Rows whose width differs from the header are rejected.
func ReadCSV(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrMissingHeader
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedCSV, err)
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if isBlankRecord(record) {
			continue
		}
		rows = append(rows, buildRow(names, record))
	}
	return rows, nil
}

// buildRow keeps the first non-blank value when a header name repeats.
func buildRow(names, values []string) Row {
	row := make(Row, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		prev, seen := row[name]
		if seen && strings.TrimSpace(prev) != "" {
			continue
		}
		row[name] = values[i]
	}
	return row
}

func detectDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

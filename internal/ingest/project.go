package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Project reads src according to p and returns a table with p's output
// columns. Lines before the header offset are skipped, the next line is the
// header and the remaining lines are data. Rows whose primary column is not
// numeric are dropped; other non-numeric cells become NaN. The profile's
// DropIncomplete and Quantize rules are applied last.
func Project(src io.ReadSeeker, p InstrumentProfile) (*Table, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	delim := DetectDelimiter(src)
	offset := DetectHeaderOffset(src, p)

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind source: %w", err)
	}
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	text, enc := decode(raw)

	lines := splitLines(text)
	if offset >= len(lines) {
		return nil, &EmptyInputError{Reason: fmt.Sprintf("no header row after skipping %d lines", offset)}
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines[offset:], "\n")))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &EmptyInputError{Reason: "missing header row"}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	for _, pos := range p.SourceColumns {
		if pos < 0 || pos >= ncol {
			return nil, &SchemaError{Position: pos, Columns: ncol}
		}
	}

	primary := 0
	for i, name := range p.OutputNames {
		if name == p.PrimaryColumn() {
			primary = i
		}
	}

	var (
		rows    [][]float64
		dropped int
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			dropped++
			continue
		}
		if blank(rec) {
			continue
		}
		row := make([]float64, len(p.SourceColumns))
		for i, pos := range p.SourceColumns {
			row[i] = cell(rec, pos)
		}
		if math.IsNaN(row[primary]) {
			dropped++
			continue
		}
		rows = append(rows, row)
	}

	t, err := NewTable(p.OutputNames, rows)
	if err != nil {
		return nil, err
	}
	t.meta = Meta{
		Delimiter:    delim,
		HeaderOffset: offset,
		Encoding:     enc,
		Degraded:     enc != encodingUTF8,
		Dropped:      dropped,
	}

	if p.DropIncomplete {
		t = t.DropIncomplete()
	}
	if q := p.Quantize; q != nil {
		if t, err = t.Quantize(q.Column, q.Step); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// cell parses rec[pos]; short records and non-numeric text yield NaN.
func cell(rec []string, pos int) float64 {
	if pos >= len(rec) {
		return math.NaN()
	}
	s := strings.TrimSpace(rec[pos])
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// profileRecord is one row of a tab-separated profile file.
type profileRecord struct {
	ID             string     `csv:"id"`
	Label          string     `csv:"label"`
	HeaderSkip     headerSkip `csv:"header_skip"`
	SourceColumns  intList    `csv:"source_columns"`
	OutputNames    nameList   `csv:"output_names"`
	Primary        string     `csv:"primary"`
	QuantizeColumn string     `csv:"quantize_column"`
	QuantizeStep   string     `csv:"quantize_step"`
	DropIncomplete string     `csv:"drop_incomplete"`
}

type headerSkip int

func (h *headerSkip) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") || s == "" {
		*h = AutoDetect
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("header_skip %q: want a non-negative integer or \"auto\"", s)
	}
	*h = headerSkip(n)
	return nil
}

type intList []int

func (l *intList) UnmarshalCSV(s string) error {
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("source_columns %q: %w", s, err)
		}
		*l = append(*l, n)
	}
	return nil
}

type nameList []string

func (l *nameList) UnmarshalCSV(s string) error {
	for _, part := range strings.Split(s, ",") {
		*l = append(*l, strings.TrimSpace(part))
	}
	return nil
}

func (r profileRecord) profile() (InstrumentProfile, error) {
	p := InstrumentProfile{
		ID:            strings.TrimSpace(r.ID),
		Label:         strings.TrimSpace(r.Label),
		HeaderSkip:    int(r.HeaderSkip),
		SourceColumns: []int(r.SourceColumns),
		OutputNames:   []string(r.OutputNames),
		Primary:       strings.TrimSpace(r.Primary),
	}
	if p.Label == "" {
		p.Label = p.ID
	}
	if col := strings.TrimSpace(r.QuantizeColumn); col != "" {
		step, err := strconv.ParseFloat(strings.TrimSpace(r.QuantizeStep), 64)
		if err != nil {
			return p, fmt.Errorf("profile %s: quantize_step %q: %w", p.ID, r.QuantizeStep, err)
		}
		p.Quantize = &QuantizeRule{Column: col, Step: step}
	}
	if s := strings.TrimSpace(r.DropIncomplete); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return p, fmt.Errorf("profile %s: drop_incomplete %q: %w", p.ID, s, err)
		}
		p.DropIncomplete = b
	}
	return p, p.Validate()
}

// ReadProfiles parses tab-separated profile definitions from r. The first
// line is a header naming the columns; see the package documentation.
func ReadProfiles(r io.Reader) ([]InstrumentProfile, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.Comment = '#'

	var records []*profileRecord
	if err := gocsv.UnmarshalCSV(cr, &records); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	out := make([]InstrumentProfile, 0, len(records))
	for _, rec := range records {
		p, err := rec.profile()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadProfiles reads the profile file at path and registers every profile in
// it. Ids that collide with an existing profile are an error.
func LoadProfiles(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()

	list, err := ReadProfiles(f)
	if err != nil {
		return 0, err
	}
	for i, p := range list {
		if err := Add(p); err != nil {
			return i, err
		}
	}
	return len(list), nil
}

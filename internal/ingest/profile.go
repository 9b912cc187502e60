package ingest

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// AutoDetect makes the header offset come from the "[Data]" marker line.
const AutoDetect = -1

// QuantizeRule collapses a noisy column onto multiples of Step before grouping.
type QuantizeRule struct {
	Column string
	Step   float64
}

// InstrumentProfile describes where the useful columns of an instrument
// export live and what they are called.
type InstrumentProfile struct {
	ID             string
	Label          string
	HeaderSkip     int    // lines before the header row, or AutoDetect
	SourceColumns  []int  // zero-based positions in the source header
	OutputNames    []string
	Primary        string // rows lacking this column are dropped; defaults to OutputNames[0]
	Quantize       *QuantizeRule
	DropIncomplete bool
}

// PrimaryColumn returns the column that must be numeric for a row to be kept.
func (p InstrumentProfile) PrimaryColumn() string {
	if p.Primary != "" {
		return p.Primary
	}
	if len(p.OutputNames) > 0 {
		return p.OutputNames[0]
	}
	return ""
}

// Validate checks the profile for internal consistency.
func (p InstrumentProfile) Validate() error {
	var errs []string

	if p.HeaderSkip < AutoDetect {
		errs = append(errs, fmt.Sprintf("header skip %d is invalid", p.HeaderSkip))
	}
	if len(p.SourceColumns) == 0 {
		errs = append(errs, "no source columns")
	}
	if len(p.SourceColumns) != len(p.OutputNames) {
		errs = append(errs, fmt.Sprintf("%d source columns but %d output names", len(p.SourceColumns), len(p.OutputNames)))
	}

	seen := make(map[string]bool, len(p.OutputNames))
	for _, name := range p.OutputNames {
		switch {
		case strings.TrimSpace(name) == "":
			errs = append(errs, "empty output name")
		case seen[name]:
			errs = append(errs, fmt.Sprintf("duplicate output name %q", name))
		}
		seen[name] = true
	}
	if p.Primary != "" && !seen[p.Primary] {
		errs = append(errs, fmt.Sprintf("primary column %q is not an output name", p.Primary))
	}
	if q := p.Quantize; q != nil {
		if !seen[q.Column] {
			errs = append(errs, fmt.Sprintf("quantize column %q is not an output name", q.Column))
		}
		if !(q.Step > 0) || math.IsInf(q.Step, 0) {
			errs = append(errs, fmt.Sprintf("quantize step %g must be positive", q.Step))
		}
	}

	if len(errs) > 0 {
		name := p.ID
		if name == "" {
			name = "<unnamed>"
		}
		return fmt.Errorf("profile %s: %s", name, strings.Join(errs, "; "))
	}
	return nil
}

// ErrUnknownProfile is returned by Lookup for an unregistered id.
var ErrUnknownProfile = errors.New("unknown instrument profile")

var (
	profiles   = make(map[string]InstrumentProfile)
	profilesMu sync.RWMutex
)

// Add validates and registers a profile.
func Add(p InstrumentProfile) error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	profilesMu.Lock()
	defer profilesMu.Unlock()

	if _, exists := profiles[p.ID]; exists {
		return fmt.Errorf("profile already registered: %s", p.ID)
	}
	profiles[p.ID] = p
	return nil
}

// Register adds a profile to the registry.
// Panics if the profile is invalid or already registered.
func Register(p InstrumentProfile) {
	if err := Add(p); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the profile registered under id.
func Lookup(id string) (InstrumentProfile, error) {
	profilesMu.RLock()
	defer profilesMu.RUnlock()

	p, ok := profiles[id]
	if !ok {
		return InstrumentProfile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, id)
	}
	return p, nil
}

// Profiles returns all registered profiles sorted by id.
func Profiles() []InstrumentProfile {
	profilesMu.RLock()
	defer profilesMu.RUnlock()

	out := make([]InstrumentProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/JonMunkholm/labplot/internal/ingest"
	"github.com/JonMunkholm/labplot/internal/plot"
)

// Params carries the form values of one run.
type Params struct {
	Numbers     map[string]float64
	Date        string // display date from the client, shown on graphs
	CreateDeck  bool
	SaveProject bool
}

// Num returns the numeric parameter key.
func (p Params) Num(key string) float64 {
	return p.Numbers[key]
}

// ParseNumber parses a numeric form value.
func ParseNumber(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, key, raw)
	}
	return v, nil
}

// Input is what a workflow builds its report from.
type Input struct {
	Tables map[string]*ingest.Table // projected tables keyed by file field
	Params Params
}

// Workflow turns projected tables into a report.
type Workflow struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Profile string   `json:"profile"`
	Files   []string `json:"files"`  // multipart file fields, in order
	Params  []string `json:"params"` // required numeric fields

	Build func(in Input) (*plot.Report, error) `json:"-"`
}

// check verifies that req supplies everything w needs.
func (w Workflow) check(req Request) error {
	for _, key := range w.Files {
		f, ok := req.Files[key]
		if !ok || f.Data == nil {
			return fmt.Errorf("%w: %s", ErrMissingFile, key)
		}
	}
	for _, key := range w.Params {
		v, ok := req.Params.Numbers[key]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrInvalidParam, key)
		}
	}
	return nil
}

var (
	workflows   = make(map[string]Workflow)
	workflowsMu sync.RWMutex
)

// RegisterWorkflow adds a workflow to the registry.
// Panics if a workflow with the same key is already registered.
func RegisterWorkflow(w Workflow) {
	workflowsMu.Lock()
	defer workflowsMu.Unlock()

	if _, exists := workflows[w.Key]; exists {
		panic(fmt.Sprintf("workflow already registered: %s", w.Key))
	}
	if w.Build == nil {
		panic(fmt.Sprintf("workflow %s has no builder", w.Key))
	}
	workflows[w.Key] = w
}

// LookupWorkflow returns the workflow registered under key.
func LookupWorkflow(key string) (Workflow, error) {
	workflowsMu.RLock()
	defer workflowsMu.RUnlock()

	w, ok := workflows[key]
	if !ok {
		return Workflow{}, fmt.Errorf("%w: %s", ErrUnknownWorkflow, key)
	}
	return w, nil
}

// Workflows returns all registered workflows sorted by key.
func Workflows() []Workflow {
	workflowsMu.RLock()
	defer workflowsMu.RUnlock()

	out := make([]Workflow, 0, len(workflows))
	for _, w := range workflows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

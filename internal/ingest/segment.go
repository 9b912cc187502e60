package ingest

import (
	"fmt"
	"math"
)

// Extremum selects the turning point of a sweep.
type Extremum int

const (
	Min Extremum = iota
	Max
)

func (e Extremum) String() string {
	if e == Max {
		return "max"
	}
	return "min"
}

// SplitOnExtremum cuts t at the first row holding the minimum (or maximum) of
// column. The first leg runs up to and including that row, the second holds
// the rest; together they are t in order. Missing cells are ignored when
// searching.
func SplitOnExtremum(t *Table, column string, mode Extremum) (*Table, *Table, error) {
	c, err := t.Col(column)
	if err != nil {
		return nil, nil, err
	}

	k := -1
	best := math.NaN()
	for i := 0; i < t.Len(); i++ {
		v := t.At(i, c)
		if math.IsNaN(v) {
			continue
		}
		if k < 0 || (mode == Min && v < best) || (mode == Max && v > best) {
			k, best = i, v
		}
	}
	if k < 0 {
		return nil, nil, &EmptyInputError{Reason: fmt.Sprintf("column %q has no values to split on", column)}
	}

	return t.Slice(0, k+1), t.Slice(k+1, t.Len()), nil
}

// Legs holds the two halves of one group after a split.
type Legs struct {
	Value  float64
	Before *Table // up to and including the extremum
	After  *Table
}

// SplitGroups applies SplitOnExtremum to every group, keeping group order.
func SplitGroups(groups []Group, column string, mode Extremum) ([]Legs, error) {
	out := make([]Legs, 0, len(groups))
	for _, g := range groups {
		before, after, err := SplitOnExtremum(g.Rows, column, mode)
		if err != nil {
			return nil, fmt.Errorf("group %g: %w", g.Value, err)
		}
		out = append(out, Legs{Value: g.Value, Before: before, After: after})
	}
	return out, nil
}

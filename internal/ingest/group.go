package ingest

import (
	"fmt"
	"math"
)

// Group is the subset of rows sharing one category value.
type Group struct {
	Value float64
	Rows  *Table
}

// GroupBy partitions t by the exact values of column, in order of first
// appearance. Rows with a missing category are left out.
func GroupBy(t *Table, column string) ([]Group, error) {
	c, err := t.Col(column)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, &EmptyInputError{Reason: "table has no rows"}
	}

	var (
		order []float64
		idx   = make(map[float64][]int)
	)
	for i := 0; i < t.Len(); i++ {
		v := t.At(i, c)
		if math.IsNaN(v) {
			continue
		}
		if _, seen := idx[v]; !seen {
			order = append(order, v)
		}
		idx[v] = append(idx[v], i)
	}
	if len(order) == 0 {
		return nil, &EmptyInputError{Reason: fmt.Sprintf("column %q has no values", column)}
	}

	groups := make([]Group, 0, len(order))
	for _, v := range order {
		rows := idx[v]
		if len(rows) == 0 {
			continue
		}
		groups = append(groups, Group{Value: v, Rows: t.pick(rows)})
	}
	return groups, nil
}

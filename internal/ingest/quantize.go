package ingest

import "math"

// snapTolerance absorbs binary rounding so that exact multiples stay put,
// e.g. 0.3/0.1 is 2.9999999999999996.
const snapTolerance = 1e-9

// QuantizeCeiling rounds v up to the next multiple of step. Exact multiples
// are unchanged, so the operation is idempotent. Negative values follow the
// ceiling (-15 with step 10 gives -10). A non-positive or non-finite step and
// non-finite values return v unchanged.
func QuantizeCeiling(v, step float64) float64 {
	if !(step > 0) || math.IsInf(step, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	q := v / step
	if r := math.Round(q); math.Abs(q-r) <= snapTolerance*math.Max(1, math.Abs(q)) {
		q = r
	}
	out := math.Ceil(q) * step
	if out == 0 {
		return 0
	}
	return out
}

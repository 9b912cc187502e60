package ingest

import (
	"math"
	"testing"
)

func TestQuantizeCeiling(t *testing.T) {
	tests := []struct {
		v, step, want float64
	}{
		{0, 10, 0},
		{0.1, 10, 10},
		{9.99, 10, 10},
		{10, 10, 10},
		{10.5, 10, 20},
		{-15, 10, -10},
		{-10, 10, -10},
		{-0.5, 10, 0},
		{0.3, 0.1, 0.30000000000000004},
		{25, 5, 25},
		{7, 0, 7},
		{7, -1, 7},
	}

	for _, tt := range tests {
		got := QuantizeCeiling(tt.v, tt.step)
		if got != tt.want {
			t.Errorf("QuantizeCeiling(%v, %v) = %v, want %v", tt.v, tt.step, got, tt.want)
		}
	}
}

// Readings within a relative 1e-9 of a multiple count as that multiple;
// anything further above rounds up.
func TestQuantizeCeiling_SnapBoundary(t *testing.T) {
	if got := QuantizeCeiling(10+1e-9, 10); got != 10 {
		t.Errorf("QuantizeCeiling(10+1e-9, 10) = %v, want 10", got)
	}
	if got := QuantizeCeiling(10+1e-6, 10); got != 20 {
		t.Errorf("QuantizeCeiling(10+1e-6, 10) = %v, want 20", got)
	}
}

func TestQuantizeCeiling_NoNegativeZero(t *testing.T) {
	for _, v := range []float64{-0.5, -9.9, math.Copysign(0, -1)} {
		got := QuantizeCeiling(v, 10)
		if got != 0 || math.Signbit(got) {
			t.Errorf("QuantizeCeiling(%v, 10) = %v, want +0", v, got)
		}
	}
}

func TestQuantizeCeiling_Idempotent(t *testing.T) {
	steps := []float64{10, 0.1, 0.25, 3}
	values := []float64{-1234.5, -15, -0.01, 0, 0.3, 1, 9.99, 10, 49999.7, 1e6 + 0.2}

	for _, step := range steps {
		for _, v := range values {
			once := QuantizeCeiling(v, step)
			twice := QuantizeCeiling(once, step)
			if once != twice {
				t.Errorf("step %v: Q(%v) = %v but Q(Q(v)) = %v", step, v, once, twice)
			}
			if once < v-1e-9*math.Max(1, math.Abs(v)) {
				t.Errorf("step %v: Q(%v) = %v is below the input", step, v, once)
			}
		}
	}
}

func TestQuantizeCeiling_NonFinite(t *testing.T) {
	if got := QuantizeCeiling(math.NaN(), 10); !math.IsNaN(got) {
		t.Errorf("QuantizeCeiling(NaN) = %v", got)
	}
	if got := QuantizeCeiling(math.Inf(1), 10); !math.IsInf(got, 1) {
		t.Errorf("QuantizeCeiling(+Inf) = %v", got)
	}
}

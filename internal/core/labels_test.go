package core

import (
	"reflect"
	"testing"
)

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2.0"},
		{0, "0.0"},
		{-3, "-3.0"},
		{1.5, "1.5"},
		{0.001, "0.001"},
		{0.00001, "1e-05"},
		{1e20, "1e+20"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTesla(t *testing.T) {
	tests := []struct {
		oe   float64
		want string
	}{
		{0, "0.0 T"},
		{10000, "10.0 T"},
		{500, "0.5 T"},
		{9999.6, "10.0 T"},
		{10, "0.01 T"},
	}
	for _, tt := range tests {
		if got := tesla(tt.oe); got != tt.want {
			t.Errorf("tesla(%v) = %q, want %q", tt.oe, got, tt.want)
		}
	}
}

func TestFreqSheet(t *testing.T) {
	if got := freqSheet(9.77); got != "Freq_9_77" {
		t.Errorf("freqSheet(9.77) = %q", got)
	}
	if got := freqSheet(1000); got != "Freq_1000_00" {
		t.Errorf("freqSheet(1000) = %q", got)
	}
}

func TestAnnotation(t *testing.T) {
	got := annotation("", "Ce", "  ", "1.0 GPa")
	want := []string{"Ce", "1.0 GPa"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("annotation() = %v, want %v", got, want)
	}
}

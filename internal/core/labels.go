package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// num formats a value the way deck, sheet and legend names have always been
// written: integral values keep one decimal ("2.0"), others use the shortest
// representation ("0.001", "1e-05").
func num(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e16 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// tesla converts a field in Oe to the legend label in T, rounding to whole Oe.
func tesla(oe float64) string {
	return num(math.RoundToEven(oe)/1000) + " T"
}

// freqSheet is the sheet name for one AC frequency, e.g. "Freq_9_77".
func freqSheet(hz float64) string {
	return "Freq_" + strings.ReplaceAll(fmt.Sprintf("%.2f", hz), ".", "_")
}

// annotation drops empty lines.
func annotation(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

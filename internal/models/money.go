package models

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAmount renders an FCFA amount with space-grouped thousands,
// e.g. 15000 -> "15 000 FCFA". Amounts are whole francs; fractions are
// rounded away. NaN/Inf render as zero.
func FormatAmount(v float64) string {
	v = SanitizeAmount(v)
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v+0.5, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)
	out := strings.Join(groups, " ")
	if neg {
		return fmt.Sprintf("-%s FCFA", out)
	}
	return out + " FCFA"
}

package postgres

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// numericStringToMinor converts a NUMERIC(20,2) text value to minor units
// using integer arithmetic. A float64 round trip loses precision once the
// amount passes 2^53 minor units.
func numericStringToMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric string")
	}

	digits := s
	neg := false
	switch digits[0] {
	case '-':
		neg = true
		digits = digits[1:]
	case '+':
		digits = digits[1:]
	}

	whole, frac, _ := strings.Cut(digits, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("parse numeric %q: no digits", s)
	}
	for i := 0; i < len(frac); i++ {
		if frac[i] < '0' || frac[i] > '9' {
			return 0, fmt.Errorf("parse numeric %q: invalid fraction", s)
		}
	}

	var w uint64
	if whole != "" {
		var err error
		w, err = strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse numeric %q: %w", s, err)
		}
	}
	if w > math.MaxInt64/100 {
		return 0, fmt.Errorf("parse numeric %q: out of range", s)
	}

	// Keep two fractional digits, rounding half away from zero on the third.
	var roundUp uint64
	if len(frac) > 2 {
		if frac[2] >= '5' {
			roundUp = 1
		}
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	f, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse numeric %q: %w", s, err)
	}

	total := w*100 + f + roundUp
	if total > math.MaxInt64 {
		return 0, fmt.Errorf("parse numeric %q: out of range", s)
	}

	minor := int64(total)
	if neg {
		minor = -minor
	}
	return minor, nil
}

func minorToNumericString(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}

	whole := minor / 100
	frac := minor % 100

	return fmt.Sprintf("%s%d.%02d", sign, whole, frac)
}

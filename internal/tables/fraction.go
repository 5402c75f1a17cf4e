package tables

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFlangeWidth parses a flange width in inches. See ParseInches for
// the accepted notations.
func ParseFlangeWidth(s string) (float64, error) {
	v, err := ParseInches(s)
	if err != nil {
		return 0, fmt.Errorf("flange width: %w", err)
	}
	return v, nil
}

// ParseInches parses a length in inches. Decimals ("1.625"), mixed
// fractions ("1-5/8", "1 5/8") and plain fractions ("13/8") are accepted,
// with an optional trailing inch mark.
func ParseInches(s string) (float64, error) {
	text := strings.TrimSpace(s)
	text = strings.TrimSuffix(text, "\"")
	text = strings.TrimSpace(strings.TrimSuffix(text, "in"))
	if text == "" {
		return 0, fmt.Errorf("empty length")
	}

	if !strings.Contains(text, "/") {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid length %q: %w", s, err)
		}
		return v, nil
	}

	// The sign applies to the whole mixed number.
	negative := strings.HasPrefix(text, "-")
	if negative {
		text = text[1:]
		if text == "" || text[0] == '-' || text[0] == '+' {
			return 0, fmt.Errorf("invalid length %q", s)
		}
	}

	whole := 0.0
	frac := text
	if i := strings.LastIndexAny(text, "- "); i > 0 {
		w, err := strconv.ParseFloat(strings.TrimSpace(text[:i]), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid length %q: %w", s, err)
		}
		whole = w
		frac = strings.TrimSpace(text[i+1:])
	}

	num, den, ok := strings.Cut(frac, "/")
	if !ok {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", s, err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", s, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("invalid length %q: zero denominator", s)
	}
	if whole < 0 || n < 0 || d < 0 || strings.HasPrefix(frac, "+") {
		return 0, fmt.Errorf("invalid length %q: misplaced sign", s)
	}
	if negative {
		return -(whole + n/d), nil
	}
	return whole + n/d, nil
}

package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseValue parses raw user input into a finite measurement value.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidValue)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
	}
	if err := CheckValue(v); err != nil {
		return 0, err
	}
	return v, nil
}

// CheckValue rejects NaN and infinities.
func CheckValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidValue, v)
	}
	return nil
}

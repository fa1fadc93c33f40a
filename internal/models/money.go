package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RupeeGlyph prefixes every displayed price
const RupeeGlyph = "₹"

// Amount is a monetary value in the smallest currency unit
type Amount int64

// FormatRupees renders an amount the way the menu displays it, e.g. "₹280"
func FormatRupees(a Amount) string {
	return RupeeGlyph + strconv.FormatInt(int64(a), 10)
}

// String implements fmt.Stringer
func (a Amount) String() string {
	return FormatRupees(a)
}

// ParsePrice accepts "₹280" or "280" and returns the amount.
func ParsePrice(s string) (Amount, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), RupeeGlyph))
	if raw == "" {
		return 0, fmt.Errorf("empty price %q", s)
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q", s)
	}
	return Amount(v), nil
}

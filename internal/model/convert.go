package model

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseInt parses a trimmed base-10 integer. Returns false for empty or
// malformed input.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseDecimal parses a trimmed decimal amount. Returns false for empty
// or malformed input.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

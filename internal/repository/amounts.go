package repository

import (
	"strings"

	"github.com/shopspring/decimal"
)

// normalizeAmount maps a legacy amount string onto a canonical decimal.
// Bulk-imported records store balances as text and carry currency signs,
// thousands separators, and stray whitespace; anything that still fails to
// parse after stripping is treated as zero, never as an error.
func normalizeAmount(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

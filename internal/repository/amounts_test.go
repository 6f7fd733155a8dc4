package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "clean integer", raw: "1200", want: "1200"},
		{name: "clean decimal", raw: "4.5", want: "4.5"},
		{name: "currency symbol and thousands comma", raw: "$1,200", want: "1200"},
		{name: "unit suffix", raw: "12 USD", want: "12"},
		{name: "negative carried through", raw: "-3.50", want: "-3.5"},
		{name: "empty is zero", raw: "", want: "0"},
		{name: "pure junk is zero", raw: "la'aan", want: "0"},
		{name: "two decimal points is zero", raw: "1.2.3", want: "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeAmount(tc.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

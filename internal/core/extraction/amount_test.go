package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
		found bool
	}{
		{"indian grouping with rupee sign", "₹1,50,000.00", 150000, true},
		{"plain integer", "84000", 84000, true},
		{"dollar prefix", "$2500", 2500, true},
		{"embedded in label", "Gross Salary: 12,00,000", 1200000, true},
		{"negative amount keeps sign", "-4,500", -4500, true},
		{"decimal rounds", "999.50", 1000, true},
		{"no digits", "no digits here", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmountFirstTokenWins(t *testing.T) {
	got, ok := ParseAmount("500 then 900")
	assert.True(t, ok)
	assert.Equal(t, int64(500), got)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceAfter(t *testing.T) {
	tests := []struct {
		name      string
		current   int64
		amount    int64
		isDeposit bool
		isAsset   bool
		want      int64
	}{
		{"asset deposit increases", 10000, 2500, true, true, 12500},
		{"asset withdrawal decreases", 10000, 2500, false, true, 7500},
		{"liability payment decreases", 50000, 2500, true, false, 47500},
		{"liability charge increases", 50000, 2500, false, false, 52500},
		{"asset overdraft allowed", 1000, 2500, false, true, -1500},
		{"zero amount is a no-op", 1000, 0, true, true, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BalanceAfter(tt.current, tt.amount, tt.isDeposit, tt.isAsset))
		})
	}
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"12.34", 1234},
		{"0", 0},
		{"100", 10000},
		{"0.005", 1},    // rounds half away from zero
		{"12.345", 1235},
		{"-2.50", -250},
		{"-0.005", -1},
	}
	for _, tt := range tests {
		got, err := ParseCents(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}

	_, err := ParseCents("not-a-number")
	assert.Error(t, err)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$12.34", FormatCents(1234))
	assert.Equal(t, "-$5.00", FormatCents(-500))
	assert.Equal(t, "$0.00", FormatCents(0))
}

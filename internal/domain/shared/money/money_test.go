package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New(1500, "eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", m.Currency)
	assert.Equal(t, int64(1500), m.Amount)

	_, err = New(100, "EURO")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestMultiply(t *testing.T) {
	total := Must(1500, "EUR").Multiply(3)
	assert.Equal(t, int64(4500), total.Amount)
	assert.Equal(t, "45.00 EUR", total.String())
}

func TestPercent(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		pct    float64
		want   int64
	}{
		{"TwentyOfFortyFive", 4500, 20, 900},
		{"RoundsUp", 1250, 20, 250},
		{"RoundsHalfAwayFromZero", 1253, 20, 251},
		{"SmallAmount", 3, 20, 1},
		{"Zero", 0, 20, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Must(tc.amount, "EUR").Percent(tc.pct)
			assert.Equal(t, tc.want, got.Amount)
			assert.Equal(t, "EUR", got.Currency)
		})
	}
}

func TestAddCurrencyMismatch(t *testing.T) {
	_, err := Must(100, "EUR").Add(Must(100, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestStringNegative(t *testing.T) {
	m := Money{Amount: -905, Currency: "EUR"}
	assert.Equal(t, "-9.05 EUR", m.String())
}

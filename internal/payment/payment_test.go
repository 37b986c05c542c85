package payment

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	cases := map[float64]int64{
		499:     49900,
		19.99:   1999,
		0.1:     10,
		1.005:   101,
		1234.56: 123456,
	}
	for in, want := range cases {
		got, err := ToMinorUnits(in)
		require.NoError(t, err, "amount %v", in)
		assert.Equal(t, want, got, "amount %v", in)
	}
}

func TestToMinorUnitsRejectsOutOfRange(t *testing.T) {
	for _, in := range []float64{0, -1, 0.004, 9.3e16, 1e20, math.Inf(1), math.NaN()} {
		_, err := ToMinorUnits(in)
		assert.ErrorIs(t, err, ErrAmountOutOfRange, "amount %v", in)
	}

	got, err := ToMinorUnits(9.2e16)
	require.NoError(t, err)
	assert.Equal(t, int64(9.2e18), got)
}

func TestNewReceipt(t *testing.T) {
	now := time.UnixMilli(1735689600123)
	assert.Equal(t, "receipt_1735689600123", NewReceipt(now))
}

func TestOrderFromResponse(t *testing.T) {
	o, err := orderFromResponse(map[string]interface{}{
		"id":       "order_Nx1",
		"amount":   float64(49900),
		"currency": "INR",
		"receipt":  "receipt_1",
		"status":   "created",
	})
	require.NoError(t, err)
	assert.Equal(t, Order{ID: "order_Nx1", Amount: 49900, Currency: "INR", Receipt: "receipt_1"}, o)

	_, err = orderFromResponse(map[string]interface{}{"error": map[string]interface{}{"code": "BAD_REQUEST_ERROR"}})
	assert.Error(t, err)
}

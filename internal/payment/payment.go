// Package payment creates orders with the payment provider.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest describes an order in the provider's minor currency unit.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
}

// Order is the provider's view of a created order.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

// OrderCreator creates orders with an external provider.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
}

// ErrAmountOutOfRange is returned for amounts that are not a positive
// whole number of minor units representable as int64.
var ErrAmountOutOfRange = errors.New("amount out of range")

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// ToMinorUnits converts a major-unit amount (rupees) to minor units
// (paise), rounding half away from zero.  Decimal arithmetic keeps
// 19.99 at 1999 instead of 1998.9999.
func ToMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrAmountOutOfRange
	}
	minor := decimal.NewFromFloat(amount).Mul(hundred).Round(0)
	if minor.Sign() <= 0 || minor.GreaterThan(maxMinor) {
		return 0, ErrAmountOutOfRange
	}
	return minor.IntPart(), nil
}

// NewReceipt returns the time-based receipt id sent with each order.
func NewReceipt(now time.Time) string {
	return fmt.Sprintf("receipt_%d", now.UnixMilli())
}

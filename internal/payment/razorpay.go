package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpay is an OrderCreator backed by the Razorpay orders API.
type Razorpay struct {
	client *razorpay.Client
}

// NewRazorpay builds a client from the key id/secret pair.
func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder posts the order.  The SDK does not take a context; the
// request is bounded by its HTTP client timeout.
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if err := ctx.Err(); err != nil {
		return Order{}, err
	}
	body, err := r.client.Order.Create(map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}, nil)
	if err != nil {
		return Order{}, fmt.Errorf("razorpay create order: %w", err)
	}
	return orderFromResponse(body)
}

// orderFromResponse reads id, amount, currency and receipt from the
// decoded JSON body.  Numbers arrive as float64.
func orderFromResponse(body map[string]interface{}) (Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return Order{}, errors.New("razorpay create order: response has no id")
	}
	o := Order{ID: id}
	switch v := body["amount"].(type) {
	case float64:
		o.Amount = int64(v)
	case int64:
		o.Amount = v
	case int:
		o.Amount = int64(v)
	}
	o.Currency, _ = body["currency"].(string)
	o.Receipt, _ = body["receipt"].(string)
	return o, nil
}

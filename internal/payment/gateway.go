package payment

import (
	"context"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

// Gateway abstracts the payment provider so handlers can be tested without
// network calls.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (map[string]interface{}, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

var paise = decimal.NewFromInt(100)

// Razorpay talks to the hosted Razorpay API. Amounts are rupees on our side
// and paise on the wire.
type Razorpay struct {
	client *razorpay.Client
	secret string
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret), secret: keySecret}
}

func (r *Razorpay) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   amount.Mul(paise).IntPart(),
		"currency": "INR",
		"receipt":  receipt,
	}
	return r.client.Order.Create(data, nil)
}

func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	return verifySignature(orderID, paymentID, signature, r.secret)
}

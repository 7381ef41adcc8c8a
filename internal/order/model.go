package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// Order is a completed checkout. Items snapshot the cart at checkout time;
// later price edits on a listing do not change past orders.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []Item          `json:"coins"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentID       string          `json:"paymentId,omitempty"`
	RazorpayOrderID string          `json:"razorpayOrderId,omitempty"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingAddress Address         `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"created_at"`
}

type Item struct {
	CoinID   string          `json:"coin"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

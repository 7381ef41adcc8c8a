package coin

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coin is one catalog listing. Price is NUMERIC in Postgres and decimal here
// to avoid float rounding.
type Coin struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Age         int             `json:"age"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Material    string          `json:"material,omitempty"`
	Condition   string          `json:"condition,omitempty"`
	Diameter    string          `json:"diameter,omitempty"`
	Weight      string          `json:"weight,omitempty"`
	SellerID    string          `json:"seller_id"`
	SellerName  string          `json:"seller_name,omitempty"`
	BuyerID     string          `json:"buyer_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

package cart

import "github.com/shopspring/decimal"

// Item is a cart line item resolved against the current listing, which is
// what every cart endpoint returns. Prices here are read-time values; the
// checkout snapshot is the order service's job.
type Item struct {
	CoinID   string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

package coin

import "github.com/shopspring/decimal"

// CreateCoinRequest is the create-listing payload. Age and price must be
// present (pointers so an omitted field is distinguishable from zero);
// positivity is left to the storefront.
type CreateCoinRequest struct {
	Name        string           `json:"name" validate:"required"`
	Type        string           `json:"type" validate:"required"`
	Age         *int             `json:"age" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Image       string           `json:"image" validate:"required"`
	Material    string           `json:"material"`
	Condition   string           `json:"condition"`
	Diameter    string           `json:"diameter"`
	Weight      string           `json:"weight"`
}

package request

import (
	"github.com/shopspring/decimal"
)

// Product is the catalog entry being put into the cart.
type Product struct {
	ID          string          `validate:"required"       json:"id"`
	Name        string          `validate:"required"       json:"name"`
	Price       decimal.Decimal `validate:"price"          json:"price"`
	Image       string          `                          json:"image"`
	WeightGrams int             `validate:"gte=0"          json:"weight"`
}

type AddToCart struct {
	Product Product `validate:"required" json:"product"`
}

type BuyNow struct {
	Product  Product `validate:"required" json:"product"`
	Quantity int     `                    json:"quantity"`
}

type ShippingQuickCheck struct {
	PostalCode string `json:"postalCode"`
}

package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record describes a payment that was captured while the order it paid
// for could not be recorded.
type Record struct {
	ClientID        string
	CheckoutID      string
	PaymentID       string
	ProviderOrderID string
	Email           string
	Amount          decimal.Decimal
	Currency        string
	Reason          string
	Order           interface{}
}

type List struct {
	Since time.Time
	Limit int
}

package response

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estimate is the raw backend answer. ShippingCost is nil when the backend
// omitted it.
type Estimate struct {
	ShippingCost *decimal.Decimal `json:"shipping_cost"`
	Tat          json.RawMessage  `json:"tat"`
}

// TransitLabel renders tat whether the backend sent it as text or a number.
func (e Estimate) TransitLabel() string {
	if len(e.Tat) == 0 || string(e.Tat) == "null" {
		return ""
	}
	label := ""
	if err := json.Unmarshal(e.Tat, &label); err == nil {
		return label
	}
	return strings.TrimSpace(string(e.Tat))
}

type Quote struct {
	DestinationPostalCode string          `json:"destinationPostalCode"`
	CostAmount            decimal.Decimal `json:"costAmount"`
	EstimatedTransitLabel string          `json:"estimatedTransitLabel,omitempty"`
	ComputedAt            time.Time       `json:"computedAt"`
}

// QuickCheck is the cart page estimate. Fallback is set when the flat rate
// replaced a failed estimate.
type QuickCheck struct {
	PostalCode       string          `json:"postalCode"`
	ShippingCost     decimal.Decimal `json:"shippingCost"`
	EstimatedTransit string          `json:"estimatedTransit,omitempty"`
	Fallback         bool            `json:"fallback"`
	Message          string          `json:"message,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Total            decimal.Decimal `json:"total"`
}

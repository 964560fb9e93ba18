package response

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Incident struct {
	ID              uuid.UUID       `json:"id"`
	ClientID        string          `json:"clientId"`
	CheckoutID      string          `json:"checkoutId"`
	PaymentID       string          `json:"paymentId"`
	ProviderOrderID string          `json:"providerOrderId,omitempty"`
	Email           string          `json:"email,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Reason          string          `json:"reason"`
	Order           json.RawMessage `json:"order"`
	CreatedAt       time.Time       `json:"createdAt"`
}

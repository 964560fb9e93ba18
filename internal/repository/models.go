package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReconciliationIncident struct {
	ID              uuid.UUID          `json:"id"`
	ClientID        string             `json:"client_id"`
	CheckoutID      string             `json:"checkout_id"`
	PaymentID       string             `json:"payment_id"`
	ProviderOrderID string             `json:"provider_order_id"`
	Email           string             `json:"email"`
	Amount          pgtype.Numeric     `json:"amount"`
	Currency        string             `json:"currency"`
	Reason          string             `json:"reason"`
	OrderPayload    []byte             `json:"order_payload"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}

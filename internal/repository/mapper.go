package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	incidentResponse "github.com/Alturino/plantstore/incident/response"
)

func (r ReconciliationIncident) Response() incidentResponse.Incident {
	return incidentResponse.Incident{
		ID:              r.ID,
		ClientID:        r.ClientID,
		CheckoutID:      r.CheckoutID,
		PaymentID:       r.PaymentID,
		ProviderOrderID: r.ProviderOrderID,
		Email:           r.Email,
		Amount:          decimal.NewFromBigInt(r.Amount.Int, r.Amount.Exp),
		Currency:        r.Currency,
		Reason:          r.Reason,
		Order:           r.OrderPayload,
		CreatedAt:       r.CreatedAt.Time,
	}
}

func NumericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:              d.Coefficient(),
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		NaN:              false,
		Valid:            true,
	}
}

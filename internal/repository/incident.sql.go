package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertIncident = `
INSERT INTO reconciliation_incidents (
    id, client_id, checkout_id, payment_id, provider_order_id, email, amount, currency, reason, order_payload
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (payment_id) DO UPDATE SET reason = EXCLUDED.reason
RETURNING id, client_id, checkout_id, payment_id, provider_order_id, email, amount, currency, reason, order_payload, created_at
`

type InsertIncidentParams struct {
	ID              uuid.UUID
	ClientID        string
	CheckoutID      string
	PaymentID       string
	ProviderOrderID string
	Email           string
	Amount          pgtype.Numeric
	Currency        string
	Reason          string
	OrderPayload    []byte
}

func (q *Queries) InsertIncident(c context.Context, arg InsertIncidentParams) (ReconciliationIncident, error) {
	row := q.db.QueryRow(c, insertIncident,
		arg.ID,
		arg.ClientID,
		arg.CheckoutID,
		arg.PaymentID,
		arg.ProviderOrderID,
		arg.Email,
		arg.Amount,
		arg.Currency,
		arg.Reason,
		arg.OrderPayload,
	)
	var i ReconciliationIncident
	err := row.Scan(
		&i.ID,
		&i.ClientID,
		&i.CheckoutID,
		&i.PaymentID,
		&i.ProviderOrderID,
		&i.Email,
		&i.Amount,
		&i.Currency,
		&i.Reason,
		&i.OrderPayload,
		&i.CreatedAt,
	)
	return i, err
}

const findIncidents = `
SELECT id, client_id, checkout_id, payment_id, provider_order_id, email, amount, currency, reason, order_payload, created_at
FROM reconciliation_incidents
WHERE created_at >= $1
ORDER BY created_at DESC
LIMIT $2
`

type FindIncidentsParams struct {
	Since pgtype.Timestamptz
	Limit int32
}

func (q *Queries) FindIncidents(c context.Context, arg FindIncidentsParams) ([]ReconciliationIncident, error) {
	rows, err := q.db.Query(c, findIncidents, arg.Since, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ReconciliationIncident{}
	for rows.Next() {
		var i ReconciliationIncident
		if err := rows.Scan(
			&i.ID,
			&i.ClientID,
			&i.CheckoutID,
			&i.PaymentID,
			&i.ProviderOrderID,
			&i.Email,
			&i.Amount,
			&i.Currency,
			&i.Reason,
			&i.OrderPayload,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

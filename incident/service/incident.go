package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/Alturino/plantstore/incident/request"
	"github.com/Alturino/plantstore/incident/response"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/repository"
)

const defaultListLimit = 50

// IncidentService is the ledger support works from when a payment was
// captured but the order was never recorded.
type IncidentService struct {
	queries *repository.Queries
}

func NewIncidentService(queries *repository.Queries) *IncidentService {
	return &IncidentService{queries: queries}
}

func (svc *IncidentService) Record(c context.Context, param request.Record) (response.Incident, error) {
	c, span := otel.Tracer.Start(c, "IncidentService Record")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "IncidentService Record").
		Str(log.KeyClientID, param.ClientID).
		Str(log.KeyCheckoutID, param.CheckoutID).
		Str(log.KeyPaymentID, param.PaymentID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "marshaling order payload").Logger()
	payload, err := json.Marshal(param.Order)
	if err != nil {
		err = fmt.Errorf("failed marshaling order payload with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Incident{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "inserting incident").Logger()
	logger.Trace().Msg("inserting incident")
	incident, err := svc.queries.InsertIncident(c, repository.InsertIncidentParams{
		ID:              uuid.New(),
		ClientID:        param.ClientID,
		CheckoutID:      param.CheckoutID,
		PaymentID:       param.PaymentID,
		ProviderOrderID: param.ProviderOrderID,
		Email:           param.Email,
		Amount:          repository.NumericFromDecimal(param.Amount),
		Currency:        param.Currency,
		Reason:          param.Reason,
		OrderPayload:    payload,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting incident with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Incident{}, err
	}
	logger.Warn().Str(log.KeyIncidentID, incident.ID.String()).Msg("recorded reconciliation incident")

	return incident.Response(), nil
}

// List returns incidents created at or after since, newest first.
func (svc *IncidentService) List(c context.Context, param request.List) ([]response.Incident, error) {
	c, span := otel.Tracer.Start(c, "IncidentService List")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "IncidentService List").
		Time("since", param.Since).
		Logger()

	limit := param.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	logger.Trace().Msg("finding incidents")
	rows, err := svc.queries.FindIncidents(c, repository.FindIncidentsParams{
		Since: pgtype.Timestamptz{Time: param.Since.UTC(), Valid: true},
		Limit: int32(limit),
	})
	if err != nil {
		err = fmt.Errorf("failed finding incidents with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	incidents := make([]response.Incident, 0, len(rows))
	for _, row := range rows {
		incidents = append(incidents, row.Response())
	}
	logger.Info().Int(log.KeyIncidents, len(incidents)).Msg("found incidents")

	return incidents, nil
}


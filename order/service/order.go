package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/validate"
	"github.com/Alturino/plantstore/order/request"
	"github.com/Alturino/plantstore/order/response"
	userResponse "github.com/Alturino/plantstore/user/response"
)

const defaultPaymentStatus = "COMPLETED"

type historyClient interface {
	MyOrders(c context.Context, token string) ([]response.Order, error)
	GetOrder(c context.Context, token string, id string) (response.Order, error)
	PayOrder(c context.Context, token string, id string, param request.PaymentResult) (response.Order, error)
}

type sessionSource interface {
	RequireSession(c context.Context, clientID string) (userResponse.Session, error)
}

// OrderService reads the order history of the logged in user.
type OrderService struct {
	client   historyClient
	sessions sessionSource
	validate *validator.Validate
	cfg      config.Checkout
	now      func() time.Time
}

func NewOrderService(
	client historyClient,
	sessions sessionSource,
	validate *validator.Validate,
	cfg config.Checkout,
) *OrderService {
	return &OrderService{client: client, sessions: sessions, validate: validate, cfg: cfg, now: time.Now}
}

func (svc *OrderService) MyOrders(c context.Context, clientID string) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService MyOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService MyOrders").
		Str(log.KeyClientID, clientID).
		Logger()

	session, err := svc.sessions.RequireSession(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Trace().Msg("finding orders")
	orders, err := svc.client.MyOrders(c, session.Token)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("found orders")

	return orders, nil
}

func (svc *OrderService) GetOrder(c context.Context, clientID string, id string) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService GetOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService GetOrder").
		Str(log.KeyClientID, clientID).
		Str(log.KeyOrderID, id).
		Logger()

	session, err := svc.sessions.RequireSession(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	order, err := svc.client.GetOrder(c, session.Token, id)
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	return order, nil
}

// PayOrder marks an order placed earlier as paid, stamping the payment
// with the session email and the current time.
func (svc *OrderService) PayOrder(
	c context.Context,
	clientID string,
	id string,
	param request.PayOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService PayOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService PayOrder").
		Str(log.KeyClientID, clientID).
		Str(log.KeyOrderID, id).
		Str(log.KeyPaymentID, param.PaymentID).
		Logger()

	if err := svc.validate.StructCtx(c, param); err != nil {
		err = validate.Fields(err, svc.cfg)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	session, err := svc.sessions.RequireSession(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	status := param.Status
	if status == "" {
		status = defaultPaymentStatus
	}
	result := request.PaymentResult{
		ID:           param.PaymentID,
		Status:       status,
		UpdateTime:   svc.now().UTC().Format(time.RFC3339Nano),
		EmailAddress: session.Email,
	}

	logger = logger.With().Str(log.KeyProcess, "paying order").Logger()
	logger.Trace().Msg("paying order")
	order, err := svc.client.PayOrder(c, session.Token, id, result)
	if err != nil {
		err = fmt.Errorf("failed paying order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("paid order")

	return order, nil
}

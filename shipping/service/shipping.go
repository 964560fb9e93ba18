package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	cartResponse "github.com/Alturino/plantstore/cart/response"
	"github.com/Alturino/plantstore/internal/config"
	inErrors "github.com/Alturino/plantstore/internal/errors"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/metrics"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/validate"
	"github.com/Alturino/plantstore/shipping/request"
	"github.com/Alturino/plantstore/shipping/response"
)

const (
	CallerCart     = "cart"
	CallerCheckout = "checkout"

	FallbackMessage   = "Could not estimate. Defaulting to standard rate."
	InvalidPostalCode = "Please enter a valid 6-digit pincode"
)

var ErrMissingShippingCost = errors.New("estimate has no shipping_cost")

type estimateClient interface {
	EstimateShipping(c context.Context, token string, param request.Estimate) (response.Estimate, error)
}

// ShippingService quotes shipping through the backend estimator. Calls go
// through a circuit breaker; an open breaker fails fast with
// ErrEstimationFailed.
type ShippingService struct {
	client   estimateClient
	breaker  *gobreaker.CircuitBreaker[response.Estimate]
	shipping config.Shipping
	checkout config.Checkout
	now      func() time.Time
}

func NewShippingService(
	client estimateClient,
	shipping config.Shipping,
	checkout config.Checkout,
) *ShippingService {
	maxFailures := shipping.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	breaker := gobreaker.NewCircuitBreaker[response.Estimate](gobreaker.Settings{
		Name:        "shipping-estimate",
		MaxRequests: 1,
		Timeout:     shipping.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: isBreakerSuccess,
	})
	return &ShippingService{
		client:   client,
		breaker:  breaker,
		shipping: shipping,
		checkout: checkout,
		now:      time.Now,
	}
}

// isBreakerSuccess keeps caller mistakes (4xx) from tripping the breaker.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var remote *inErrors.RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode >= 400 && remote.StatusCode < 500
	}
	return false
}

func (svc *ShippingService) Origin() string {
	return svc.shipping.OriginPostalCode
}

// Estimate quotes shipping from the configured origin. The destination is
// not validated here. Every failure wraps ErrEstimationFailed.
func (svc *ShippingService) Estimate(
	c context.Context,
	token string,
	destination string,
	weightGrams int,
	cod bool,
) (response.Quote, error) {
	c, span := otel.Tracer.Start(c, "ShippingService Estimate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ShippingService Estimate").
		Str(log.KeyPostalCode, destination).
		Int(log.KeyWeight, weightGrams).
		Logger()

	param := request.Estimate{
		PickupPostcode:   svc.Origin(),
		DeliveryPostcode: destination,
		Weight:           weightGrams,
	}
	if cod {
		param.Cod = 1
	}

	logger = logger.With().Str(log.KeyProcess, "estimating shipping").Logger()
	logger.Trace().Msg("estimating shipping")
	estimate, err := svc.breaker.Execute(func() (response.Estimate, error) {
		return svc.client.EstimateShipping(c, token, param)
	})
	if err == nil && estimate.ShippingCost == nil {
		err = ErrMissingShippingCost
	}
	if err != nil {
		err = fmt.Errorf("%w with error=%w", inErrors.ErrEstimationFailed, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Quote{}, err
	}

	quote := response.Quote{
		DestinationPostalCode: destination,
		CostAmount:            *estimate.ShippingCost,
		EstimatedTransitLabel: estimate.TransitLabel(),
		ComputedAt:            svc.now().UTC(),
	}
	logger.Info().Any(log.KeyQuote, quote).Msg("estimated shipping")

	return quote, nil
}

// QuickCheck is the cart page estimate. It rejects a malformed postal code
// without calling the estimator and falls back to the flat rate on any
// estimator failure.
func (svc *ShippingService) QuickCheck(
	c context.Context,
	token string,
	postalCode string,
	summary cartResponse.Summary,
) (response.QuickCheck, error) {
	c, span := otel.Tracer.Start(c, "ShippingService QuickCheck")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ShippingService QuickCheck").
		Str(log.KeyPostalCode, postalCode).
		Logger()

	if !validate.IsDigits(postalCode, svc.checkout.PostalCodeDigits) {
		err := &inErrors.ValidationError{
			Fields:  map[string]string{"postalCode": InvalidPostalCode},
			Message: InvalidPostalCode,
		}
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.QuickCheck{}, err
	}

	result := response.QuickCheck{PostalCode: postalCode, Subtotal: summary.Subtotal}

	c = logger.WithContext(c)
	quote, err := svc.Estimate(c, token, postalCode, summary.WeightGrams, false)
	if err != nil {
		metrics.ShippingEstimates.WithLabelValues(CallerCart, "fallback").Inc()
		logger.Warn().Err(err).Msg("defaulting to flat shipping rate")
		result.ShippingCost = svc.shipping.FallbackAmount()
		result.Fallback = true
		result.Message = FallbackMessage
	} else {
		metrics.ShippingEstimates.WithLabelValues(CallerCart, "success").Inc()
		result.ShippingCost = quote.CostAmount
		result.EstimatedTransit = quote.EstimatedTransitLabel
	}
	result.Total = result.Subtotal.Add(result.ShippingCost)

	return result, nil
}

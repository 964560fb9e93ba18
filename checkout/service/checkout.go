package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	cartResponse "github.com/Alturino/plantstore/cart/response"
	cartService "github.com/Alturino/plantstore/cart/service"
	"github.com/Alturino/plantstore/checkout/request"
	"github.com/Alturino/plantstore/checkout/response"
	incidentRequest "github.com/Alturino/plantstore/incident/request"
	incidentResponse "github.com/Alturino/plantstore/incident/response"
	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/internal/constants"
	inErrors "github.com/Alturino/plantstore/internal/errors"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/metrics"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/validate"
	orderRequest "github.com/Alturino/plantstore/order/request"
	orderResponse "github.com/Alturino/plantstore/order/response"
	shippingResponse "github.com/Alturino/plantstore/shipping/response"
	userResponse "github.com/Alturino/plantstore/user/response"
)

const (
	MessageEstimateFailed   = "Could not estimate shipping."
	MessagePaymentCancelled = "Payment was cancelled."
	MessageEmptyCheckout    = "Your cart is empty"
	PaymentStatusCompleted  = "COMPLETED"
)

type lineSource interface {
	Load(c context.Context, clientID string) (cartResponse.Cart, error)
	BuyNowLines(c context.Context, clientID string) ([]cartResponse.CartLine, error)
	Clear(c context.Context, clientID string) (cartResponse.Summary, error)
	ClearBuyNow(c context.Context, clientID string) error
}

type estimator interface {
	Estimate(c context.Context, token, destination string, weightGrams int, cod bool) (shippingResponse.Quote, error)
}

type sessionSource interface {
	Current(c context.Context, clientID string) (userResponse.Session, bool, error)
}

type orderClient interface {
	CreateProviderOrder(c context.Context, token string, param orderRequest.CreateProviderOrder) (orderResponse.ProviderOrder, error)
	CreateOrder(c context.Context, token string, param orderRequest.CreateOrder) (orderResponse.Order, error)
}

type incidentRecorder interface {
	Record(c context.Context, param incidentRequest.Record) (incidentResponse.Incident, error)
}

type store[T any] interface {
	Load(c context.Context, clientID string) (T, bool, error)
	Save(c context.Context, clientID string, value T) error
	Clear(c context.Context, clientID string) error
}

// CheckoutService drives the checkout state machine of every client. Steps
// of one client never run concurrently, so at most one backend call per
// client is in flight.
type CheckoutService struct {
	lines     lineSource
	estimator estimator
	sessions  sessionSource
	orders    orderClient
	incidents incidentRecorder
	checkouts store[response.Session]
	validate  *validator.Validate
	cfg       config.Checkout
	locks     *keyedMutex
	now       func() time.Time
}

func NewCheckoutService(
	lines lineSource,
	estimator estimator,
	sessions sessionSource,
	orders orderClient,
	incidents incidentRecorder,
	checkouts store[response.Session],
	validate *validator.Validate,
	cfg config.Checkout,
) *CheckoutService {
	return &CheckoutService{
		lines:     lines,
		estimator: estimator,
		sessions:  sessions,
		orders:    orders,
		incidents: incidents,
		checkouts: checkouts,
		validate:  validate,
		cfg:       cfg,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// Begin starts a checkout over the persisted cart or the buy-now item and
// replaces any previous checkout of the client. A checkout that is
// recording a captured payment cannot be replaced.
func (svc *CheckoutService) Begin(
	c context.Context,
	clientID string,
	param request.Begin,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Begin")
	defer span.End()

	unlock := svc.locks.Lock(clientID)
	defer unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Begin").
		Str(log.KeyClientID, clientID).
		Str(log.KeyCheckoutSource, string(param.Source)).
		Logger()

	if err := svc.validate.StructCtx(c, param); err != nil {
		err = validate.Fields(err, svc.cfg)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	existing, found, err := svc.checkouts.Load(c, clientID)
	if err != nil {
		err = fmt.Errorf("failed loading checkout with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if found && existing.State == response.StateFinalizing {
		err = fmt.Errorf("%w: checkout=%s is finalizing", inErrors.ErrInvalidTransition, existing.ID)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "loading lines").Logger()
	var lines []cartResponse.CartLine
	switch param.Source {
	case response.SourceCart:
		cart, loadErr := svc.lines.Load(c, clientID)
		lines, err = cart.Lines, loadErr
	case response.SourceBuyNow:
		lines, err = svc.lines.BuyNowLines(c, clientID)
	}
	if err != nil {
		err = fmt.Errorf("failed loading checkout lines with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if len(lines) == 0 {
		err = errors.Join(inErrors.ErrEmptyCheckout, &inErrors.ValidationError{
			Fields:  map[string]string{"lines": "is empty"},
			Message: MessageEmptyCheckout,
		})
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	now := svc.now().UTC()
	s := response.Session{
		ID:        uuid.NewString(),
		Source:    param.Source,
		State:     response.StateIdle,
		Lines:     lines,
		Currency:  svc.cfg.Currency,
		CreatedAt: now,
	}
	s.Address.PostalCode = param.PostalCode
	logger = logger.With().Str(log.KeyCheckoutID, s.ID).Logger()
	c = logger.WithContext(c)

	svc.reprice(&s)
	svc.transition(c, &s, response.StateAddressEntry)

	quoteErr := svc.quote(c, clientID, &s, false)
	if err = svc.save(c, clientID, &s); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	logger.Info().Msg("began checkout")

	return s, quoteErr
}

// UpdateAddress stores the shipping address and quotes shipping once the
// postal code is complete. A failed estimate leaves the checkout in
// address_entry without shipping; RetryShipping tries again.
func (svc *CheckoutService) UpdateAddress(
	c context.Context,
	clientID string,
	param request.UpdateAddress,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService UpdateAddress")
	defer span.End()

	unlock := svc.locks.Lock(clientID)
	defer unlock()

	s, err := svc.load(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService UpdateAddress").
		Str(log.KeyClientID, clientID).
		Str(log.KeyCheckoutID, s.ID).
		Str(log.KeyCheckoutState, string(s.State)).
		Logger()
	c = logger.WithContext(c)

	if !oneOf(s.State, response.StateAddressEntry, response.StateShippingQuoted, response.StateAuthRequired) {
		err = fmt.Errorf("%w: cannot update address in state=%s", inErrors.ErrInvalidTransition, s.State)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return s, err
	}

	s.Address = param.Address
	s.FieldErrors = nil
	s.Error = ""
	quoteErr := svc.quote(c, clientID, &s, false)
	if s.Quote != nil {
		svc.transition(c, &s, response.StateShippingQuoted)
	}

	if err = svc.save(c, clientID, &s); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	logger.Info().Msg("updated address")

	return s, quoteErr
}

// RetryShipping re-runs a failed estimate for the current postal code.
func (svc *CheckoutService) RetryShipping(c context.Context, clientID string) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService RetryShipping")
	defer span.End()

	unlock := svc.locks.Lock(clientID)
	defer unlock()

	s, err := svc.load(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService RetryShipping").
		Str(log.KeyClientID, clientID).
		Str(log.KeyCheckoutID, s.ID).
		Logger()
	c = logger.WithContext(c)

	if s.State != response.StateAddressEntry {
		err = fmt.Errorf("%w: cannot retry shipping in state=%s", inErrors.ErrInvalidTransition, s.State)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return s, err
	}
	if !validate.IsDigits(s.Address.PostalCode, svc.cfg.PostalCodeDigits) {
		err = inErrors.NewValidationError(
			"postalCode",
			fmt.Sprintf("must be exactly %d digits", svc.cfg.PostalCodeDigits),
		)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return s, err
	}

	s.Error = ""
	quoteErr := svc.quote(c, clientID, &s, true)
	if err = svc.save(c, clientID, &s); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}

	return s, quoteErr
}

// Submit runs the validation gate and opens the payment provider order.
// Without an active session the checkout parks in auth_required with all
// entered data kept.
func (svc *CheckoutService) Submit(c context.Context, clientID string) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Submit")
	defer span.End()

	unlock := svc.locks.Lock(clientID)
	defer unlock()

	s, err := svc.load(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	if !oneOf(s.State, response.StateAddressEntry, response.StateShippingQuoted, response.StateAuthRequired) {
		err = fmt.Errorf("%w: cannot submit in state=%s", inErrors.ErrInvalidTransition, s.State)
		otel.RecordError(err, span)
		return s, err
	}

	return svc.submit(c, clientID, s, false)
}

// Resume continues a checkout parked in auth_required once the client has
// logged in.
func (svc *CheckoutService) Resume(c context.Context, clientID string) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Resume")
	defer span.End()

	unlock := svc.locks.Lock(clientID)
	defer unlock()

	s, err := svc.load(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	if s.State != response.StateAuthRequired {
		err = fmt.Errorf("%w: cannot resume in state=%s", inErrors.ErrInvalidTransition, s.State)
		otel.RecordError(err, span)
		return s, err
	}

	return svc.submit(c, clientID, s, true)
}

func (svc *CheckoutService) submit(
	c context.Context,
	clientID string,
	s response.Session,
	requireSession bool,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService submit").
		Str(log.KeyClientID, clientID).
		Str(log.KeyCheckoutID, s.ID).
		Str(log.KeyCheckoutState, string(s.State)).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "validating address").Logger()
	if err := svc.validate.StructCtx(c, s.Address); err != nil {
		err = validate.Fields(err, svc.cfg)
		var validation *inErrors.ValidationError
		if errors.As(err, &validation) {
			s.FieldErrors = validation.Fields
			if saveErr := svc.save(c, clientID, &s); saveErr != nil {
				otel.RecordError(saveErr, span)
				return response.Session{}, saveErr
			}
		}
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return s, err
	}
	s.FieldErrors = nil

	if s.Quote == nil {
		err := inErrors.ErrShippingNotQuoted
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return s, err
	}

	logger = logger.With().Str(log.KeyProcess, "checking session").Logger()
	session, found, err := svc.sessions.Current(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s, err
	}
	if !found {
		if requireSession {
			otel.RecordError(inErrors.ErrNoSession, span)
			return s, inErrors.ErrNoSession
		}
		svc.transition(c, &s, response.StateAuthRequired)
		if err = svc.save(c, clientID, &s); err != nil {
			otel.RecordError(err, span)
			return response.Session{}, err
		}
		logger.Info().Msg("checkout requires login")
		return s, nil
	}

	s.Email = session.Email
	s.Error = ""
	svc.transition(c, &s, response.StateSubmitting)
	if err = svc.save(c, clientID, &s); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "creating provider order").Logger()
	logger.Trace().Msg("creating provider order")
	providerOrder, err := svc.orders.CreateProviderOrder(
		c,
		session.Token,
		orderRequest.CreateProviderOrder{Amount: s.TotalPrice},
	)
	if err != nil {
		s.Error = userMessage(err)
		svc.transition(c, &s, response.StateShippingQuoted)
		if saveErr := svc.save(c, clientID, &s); saveErr != nil {
			otel.RecordError(saveErr, span)
			return response.Session{}, saveErr
		}
		err = fmt.Errorf("failed creating provider order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s, err
	}

	s.ProviderOrder = &providerOrder
	svc.transition(c, &s, response.StateProviderPayment)
	if err = svc.save(c, clientID, &s); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	logger.Info().Str(log.KeyProviderOrderID, providerOrder.ID).Msg("created provider order")

	return s, nil
}

// PaymentSucceeded records the order the payment paid for. A rejected
// order after a captured payment fails the checkout for good and lands in
// the incident ledger.
func (svc *CheckoutService) PaymentSucceeded(
	c context.Context,
	clientID string,
	param request.PaymentSucceeded,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService PaymentSucceeded")
	defer span.End()

	unlock := svc.locks.Lock(clientID)
	defer unlock()

	s, err := svc.load(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService PaymentSucceeded").
		Str(log.KeyClientID, clientID).
		Str(log.KeyCheckoutID, s.ID).
		Str(log.KeyPaymentID, param.PaymentID).
		Logger()
	c = logger.WithContext(c)

	if s.State != response.StateProviderPayment {
		err = fmt.Errorf("%w: payment callback in state=%s", inErrors.ErrInvalidTransition, s.State)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return s, err
	}
	if err = svc.validate.StructCtx(c, param); err != nil {
		err = validate.Fields(err, svc.cfg)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return s, err
	}
	if param.ProviderOrderID != "" && s.ProviderOrder != nil && param.ProviderOrderID != s.ProviderOrder.ID {
		err = inErrors.NewValidationError("providerOrderId", "does not match the open payment")
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return s, err
	}

	// The payment is captured from here on. Finalizing must reach completed
	// or failed even when the caller goes away.
	c = context.WithoutCancel(c)

	s.PaymentID = param.PaymentID
	svc.transition(c, &s, response.StateFinalizing)
	if err = svc.save(c, clientID, &s); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}

	now := svc.now().UTC()
	payload := orderRequest.CreateOrder{
		OrderItems:      orderRequest.NewOrderItems(s.Lines),
		ShippingAddress: s.Address,
		PaymentMethod:   constants.PAYMENT_METHOD_RAZORPAY,
		ItemsPrice:      s.ItemsPrice,
		TaxPrice:        s.TaxPrice,
		ShippingPrice:   s.ShippingPrice,
		TotalPrice:      s.TotalPrice,
		PaymentResult: &orderRequest.PaymentResult{
			ID:           param.PaymentID,
			Status:       PaymentStatusCompleted,
			UpdateTime:   now.Format(time.RFC3339Nano),
			EmailAddress: s.Email,
		},
		IsPaid: true,
		PaidAt: &now,
	}

	logger = logger.With().Str(log.KeyProcess, "creating order").Logger()
	logger.Trace().Msg("creating order")
	order, err := svc.createOrder(c, clientID, payload)
	if err != nil {
		reconciliation := &inErrors.ReconciliationFailure{PaymentID: param.PaymentID, Err: err}
		s.Error = reconciliation.Error()
		svc.transition(c, &s, response.StateFailed)
		s.IncidentID = svc.recordIncident(c, clientID, s, payload, reconciliation)
		if saveErr := svc.save(c, clientID, &s); saveErr != nil {
			err = errors.Join(reconciliation, saveErr)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return s, err
		}
		otel.RecordError(reconciliation, span)
		logger.Error().Err(reconciliation).Msg(reconciliation.Error())
		return s, reconciliation
	}

	s.Order = &order
	s.Error = ""
	svc.transition(c, &s, response.StateCompleted)
	if err = svc.save(c, clientID, &s); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	logger.Info().Str(log.KeyOrderID, order.ID).Msg("completed checkout")

	svc.clearSource(c, clientID, s.Source)

	return s, nil
}

// PaymentFailed returns to the last editable state with every entered
// value intact and the provider reason surfaced.
func (svc *CheckoutService) PaymentFailed(
	c context.Context,
	clientID string,
	param request.PaymentFailed,
) (response.Session, error) {
	failure := &inErrors.PaymentFailure{Reason: param.Reason}
	s, err := svc.abortPayment(c, clientID, "CheckoutService PaymentFailed", failure.Error())
	if err != nil {
		return s, err
	}
	return s, failure
}

// PaymentDismissed is the widget being closed without paying.
func (svc *CheckoutService) PaymentDismissed(c context.Context, clientID string) (response.Session, error) {
	return svc.abortPayment(c, clientID, "CheckoutService PaymentDismissed", MessagePaymentCancelled)
}

func (svc *CheckoutService) abortPayment(
	c context.Context,
	clientID string,
	name string,
	message string,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, name)
	defer span.End()

	unlock := svc.locks.Lock(clientID)
	defer unlock()

	s, err := svc.load(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, name).
		Str(log.KeyClientID, clientID).
		Str(log.KeyCheckoutID, s.ID).
		Logger()
	c = logger.WithContext(c)

	if s.State != response.StateProviderPayment {
		err = fmt.Errorf("%w: payment callback in state=%s", inErrors.ErrInvalidTransition, s.State)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return s, err
	}

	s.ProviderOrder = nil
	s.Error = message
	if s.Quote != nil {
		svc.transition(c, &s, response.StateShippingQuoted)
	} else {
		svc.transition(c, &s, response.StateAddressEntry)
	}
	if err = svc.save(c, clientID, &s); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	logger.Info().Msg(message)

	return s, nil
}

// Current returns the client's checkout or ErrNoCheckout.
func (svc *CheckoutService) Current(c context.Context, clientID string) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Current")
	defer span.End()

	s, err := svc.load(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	return s, nil
}

// Abandon drops the checkout unless it is recording a captured payment.
func (svc *CheckoutService) Abandon(c context.Context, clientID string) error {
	c, span := otel.Tracer.Start(c, "CheckoutService Abandon")
	defer span.End()

	unlock := svc.locks.Lock(clientID)
	defer unlock()

	s, found, err := svc.checkouts.Load(c, clientID)
	if err != nil {
		err = fmt.Errorf("failed loading checkout with error=%w", err)
		otel.RecordError(err, span)
		return err
	}
	if !found {
		return nil
	}
	if s.State == response.StateFinalizing {
		err = fmt.Errorf("%w: checkout=%s is finalizing", inErrors.ErrInvalidTransition, s.ID)
		otel.RecordError(err, span)
		return err
	}
	if err = svc.checkouts.Clear(c, clientID); err != nil {
		err = fmt.Errorf("failed clearing checkout with error=%w", err)
		otel.RecordError(err, span)
		return err
	}
	zerolog.Ctx(c).Info().Str(log.KeyCheckoutID, s.ID).Msg("abandoned checkout")
	return nil
}

// quote estimates shipping when the postal code is complete and not yet
// quoted. force re-estimates a code that already failed.
func (svc *CheckoutService) quote(c context.Context, clientID string, s *response.Session, force bool) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyProcess, "quoting shipping").
		Str(log.KeyPostalCode, s.Address.PostalCode).
		Logger()

	if !validate.IsDigits(s.Address.PostalCode, svc.cfg.PostalCodeDigits) {
		s.Quote = nil
		s.CanRetryQuote = false
		svc.reprice(s)
		if s.State != response.StateAddressEntry {
			svc.transition(c, s, response.StateAddressEntry)
		}
		return nil
	}
	if !force && s.Quote != nil && s.Quote.DestinationPostalCode == s.Address.PostalCode {
		return nil
	}

	token := ""
	if session, found, err := svc.sessions.Current(c, clientID); err == nil && found {
		token = session.Token
	}

	quote, err := svc.estimator.Estimate(c, token, s.Address.PostalCode, cartService.TotalWeightGrams(s.Lines), false)
	if err != nil {
		metrics.ShippingEstimates.WithLabelValues("checkout", "failure").Inc()
		s.Quote = nil
		s.CanRetryQuote = true
		s.Error = MessageEstimateFailed
		svc.reprice(s)
		if s.State != response.StateAddressEntry {
			svc.transition(c, s, response.StateAddressEntry)
		}
		logger.Warn().Err(err).Msg(MessageEstimateFailed)
		return err
	}
	metrics.ShippingEstimates.WithLabelValues("checkout", "success").Inc()

	s.Quote = &quote
	s.CanRetryQuote = false
	s.Error = ""
	svc.reprice(s)
	svc.transition(c, s, response.StateShippingQuoted)
	logger.Info().Any(log.KeyQuote, quote).Msg("quoted shipping")

	return nil
}

// reprice recomputes the totals. Shipping only counts once quoted.
func (svc *CheckoutService) reprice(s *response.Session) {
	s.ItemsPrice = cartService.Subtotal(s.Lines)
	s.TaxPrice = s.ItemsPrice.Mul(svc.cfg.TaxRateAmount())
	s.ShippingPrice = decimal.Zero
	if s.Quote != nil {
		s.ShippingPrice = s.Quote.CostAmount
	}
	s.TotalPrice = s.ItemsPrice.Add(s.TaxPrice).Add(s.ShippingPrice)
}

func (svc *CheckoutService) transition(c context.Context, s *response.Session, to response.State) {
	from := s.State
	s.UpdatedAt = svc.now().UTC()
	if from == to {
		return
	}
	if !canTransition(from, to) {
		zerolog.Ctx(c).Error().
			Str(log.KeyCheckoutID, s.ID).
			Msgf("unexpected checkout transition from=%s to=%s", from, to)
	}
	s.State = to
	metrics.CheckoutTransitions.WithLabelValues(string(from), string(to)).Inc()
	zerolog.Ctx(c).Debug().
		Str(log.KeyCheckoutID, s.ID).
		Str(log.KeyCheckoutState, string(to)).
		Msgf("checkout transitioned from=%s to=%s", from, to)
}

func (svc *CheckoutService) load(c context.Context, clientID string) (response.Session, error) {
	s, found, err := svc.checkouts.Load(c, clientID)
	if err != nil {
		return response.Session{}, fmt.Errorf("failed loading checkout with error=%w", err)
	}
	if !found {
		return response.Session{}, inErrors.ErrNoCheckout
	}
	return s, nil
}

func (svc *CheckoutService) save(c context.Context, clientID string, s *response.Session) error {
	if err := svc.checkouts.Save(c, clientID, *s); err != nil {
		err = fmt.Errorf("failed saving checkout with error=%w", err)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyCheckoutID, s.ID).Msg(err.Error())
		return err
	}
	return nil
}

func (svc *CheckoutService) createOrder(
	c context.Context,
	clientID string,
	payload orderRequest.CreateOrder,
) (orderResponse.Order, error) {
	session, found, err := svc.sessions.Current(c, clientID)
	if err != nil {
		return orderResponse.Order{}, err
	}
	if !found {
		return orderResponse.Order{}, inErrors.ErrNoSession
	}
	return svc.orders.CreateOrder(c, session.Token, payload)
}

func (svc *CheckoutService) recordIncident(
	c context.Context,
	clientID string,
	s response.Session,
	payload orderRequest.CreateOrder,
	failure *inErrors.ReconciliationFailure,
) string {
	providerOrderID := ""
	if s.ProviderOrder != nil {
		providerOrderID = s.ProviderOrder.ID
	}
	incident, err := svc.incidents.Record(c, incidentRequest.Record{
		ClientID:        clientID,
		CheckoutID:      s.ID,
		PaymentID:       failure.PaymentID,
		ProviderOrderID: providerOrderID,
		Email:           s.Email,
		Amount:          s.TotalPrice,
		Currency:        s.Currency,
		Reason:          failure.Error(),
		Order:           payload,
	})
	if err != nil {
		zerolog.Ctx(c).Error().Err(err).Msg("failed recording reconciliation incident")
		return ""
	}
	return incident.ID.String()
}

// clearSource empties whatever the completed checkout was built from. The
// order is already recorded, so failures are only logged.
func (svc *CheckoutService) clearSource(c context.Context, clientID string, source response.Source) {
	var err error
	switch source {
	case response.SourceCart:
		_, err = svc.lines.Clear(c, clientID)
	case response.SourceBuyNow:
		err = svc.lines.ClearBuyNow(c, clientID)
	}
	if err != nil {
		zerolog.Ctx(c).Error().Err(err).Str("source", string(source)).Msg("failed clearing checkout source")
	}
}

func userMessage(err error) string {
	var remote *inErrors.RemoteError
	if errors.As(err, &remote) {
		return remote.UserMessage()
	}
	return inErrors.MessageForCode(inErrors.CodeUnknownError, "")
}

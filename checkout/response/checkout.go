package response

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	cartResponse "github.com/Alturino/plantstore/cart/response"
	orderRequest "github.com/Alturino/plantstore/order/request"
	orderResponse "github.com/Alturino/plantstore/order/response"
	shippingResponse "github.com/Alturino/plantstore/shipping/response"
)

type State string

const (
	StateIdle            State = "idle"
	StateAddressEntry    State = "address_entry"
	StateShippingQuoted  State = "shipping_quoted"
	StateAuthRequired    State = "auth_required"
	StateSubmitting      State = "submitting"
	StateProviderPayment State = "provider_payment"
	StateFinalizing      State = "finalizing"
	StateCompleted       State = "completed"
	StateFailed          State = "failed"
)

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

type Source string

const (
	SourceCart   Source = "cart"
	SourceBuyNow Source = "buy_now"
)

// Session is one checkout attempt of a client. Lines are a snapshot taken
// when the checkout began.
type Session struct {
	ID            string                       `json:"id"`
	Source        Source                       `json:"source"`
	State         State                        `json:"state"`
	Lines         []cartResponse.CartLine      `json:"lines"`
	Address       orderRequest.ShippingAddress `json:"address"`
	Quote         *shippingResponse.Quote      `json:"quote,omitempty"`
	ItemsPrice    decimal.Decimal              `json:"itemsPrice"`
	TaxPrice      decimal.Decimal              `json:"taxPrice"`
	ShippingPrice decimal.Decimal              `json:"shippingPrice"`
	TotalPrice    decimal.Decimal              `json:"totalPrice"`
	Currency      string                       `json:"currency"`
	Email         string                       `json:"email,omitempty"`
	ProviderOrder *orderResponse.ProviderOrder `json:"providerOrder,omitempty"`
	PaymentID     string                       `json:"paymentId,omitempty"`
	Order         *orderResponse.Order         `json:"order,omitempty"`
	IncidentID    string                       `json:"incidentId,omitempty"`
	Error         string                       `json:"error,omitempty"`
	FieldErrors   map[string]string            `json:"fieldErrors,omitempty"`
	CanRetryQuote bool                         `json:"canRetryShipping"`
	CreatedAt     time.Time                    `json:"createdAt"`
	UpdatedAt     time.Time                    `json:"updatedAt"`
}

func (s Session) Validate() error {
	if s.ID == "" {
		return errors.New("checkout without id")
	}
	switch s.State {
	case StateAddressEntry, StateShippingQuoted, StateAuthRequired, StateSubmitting,
		StateProviderPayment, StateFinalizing, StateCompleted, StateFailed:
	default:
		return fmt.Errorf("unknown checkout state=%q", s.State)
	}
	if s.Source != SourceCart && s.Source != SourceBuyNow {
		return fmt.Errorf("unknown checkout source=%q", s.Source)
	}
	if len(s.Lines) == 0 {
		return errors.New("checkout without lines")
	}
	return nil
}

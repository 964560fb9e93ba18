package request

import (
	"github.com/Alturino/plantstore/checkout/response"
	orderRequest "github.com/Alturino/plantstore/order/request"
)

type Begin struct {
	Source     response.Source `validate:"required,oneof=cart buy_now" json:"source"`
	PostalCode string          `                                      json:"postalCode,omitempty"`
}

type UpdateAddress struct {
	Address orderRequest.ShippingAddress `json:"address"`
}

// PaymentSucceeded is the payment widget success callback.
type PaymentSucceeded struct {
	PaymentID       string `validate:"required" json:"paymentId"`
	ProviderOrderID string `                    json:"providerOrderId,omitempty"`
	Signature       string `                    json:"signature,omitempty"`
}

type PaymentFailed struct {
	Reason string `json:"reason"`
}

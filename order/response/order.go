package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/plantstore/order/request"
)

type Order struct {
	ID              string                  `json:"_id"`
	OrderItems      []request.OrderItem     `json:"orderItems"`
	ShippingAddress request.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	PaymentResult   *request.PaymentResult  `json:"paymentResult,omitempty"`
	ItemsPrice      decimal.Decimal         `json:"itemsPrice"`
	TaxPrice        decimal.Decimal         `json:"taxPrice"`
	ShippingPrice   decimal.Decimal         `json:"shippingPrice"`
	TotalPrice      decimal.Decimal         `json:"totalPrice"`
	IsPaid          bool                    `json:"isPaid"`
	PaidAt          *time.Time              `json:"paidAt,omitempty"`
	IsDelivered     bool                    `json:"isDelivered"`
	DeliveredAt     *time.Time              `json:"deliveredAt,omitempty"`
	ShippedAt       *time.Time              `json:"shippedAt,omitempty"`
	CreatedAt       *time.Time              `json:"createdAt,omitempty"`
}

// ProviderOrder is what the hosted payment widget is opened with.
type ProviderOrder struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

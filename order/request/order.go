package request

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	cartResponse "github.com/Alturino/plantstore/cart/response"
)

type OrderItem struct {
	Product string          `json:"product"`
	Name    string          `json:"name"`
	Qty     int             `json:"qty"`
	Price   decimal.Decimal `json:"price"`
	Image   string          `json:"image"`
}

// NewOrderItems maps cart lines onto the backend order item shape.
func NewOrderItems(lines []cartResponse.CartLine) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderItem{
			Product: line.ProductID,
			Name:    line.Name,
			Qty:     line.Quantity,
			Price:   line.UnitPrice,
			Image:   line.ImageRef,
		})
	}
	return items
}

type ShippingAddress struct {
	FullName    string `validate:"required"            json:"fullName"`
	Address     string `validate:"required"            json:"address"`
	City        string `validate:"required"            json:"city"`
	PostalCode  string `validate:"required,postalcode" json:"postalCode"`
	Country     string `validate:"required"            json:"country"`
	PhoneNumber string `validate:"required,phone"      json:"phoneNumber"`
	Landmark    string `                               json:"landmark,omitempty"`
}

func (a ShippingAddress) MarshalZerologObject(e *zerolog.Event) {
	e.Str("city", a.City).Str("postalCode", a.PostalCode).Str("country", a.Country)
}

type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type CreateOrder struct {
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
}

// CreateProviderOrder asks the backend to open a payment provider order.
type CreateProviderOrder struct {
	Amount decimal.Decimal `json:"amount"`
}

// PayOrder marks an existing unpaid order as paid by the given payment.
type PayOrder struct {
	PaymentID string `validate:"required" json:"paymentId"`
	Status    string `                    json:"status,omitempty"`
}

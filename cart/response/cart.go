package response

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultWeightGrams = 500
	MaxBuyNowQuantity  = 10
)

type CartLine struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	ImageRef    string          `json:"imageRef"`
	WeightGrams int             `json:"weightGrams"`
}

// Cart keeps lines in first-added order.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) IndexOf(productID string) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Validate() error {
	return validateLines(c.Lines)
}

// BuyNow is the single item override used by the buy-now flow.
type BuyNow struct {
	Lines []CartLine `json:"lines"`
}

func (b BuyNow) Validate() error {
	if len(b.Lines) != 1 {
		return fmt.Errorf("buy now must hold exactly one line, got=%d", len(b.Lines))
	}
	if b.Lines[0].Quantity > MaxBuyNowQuantity {
		return fmt.Errorf("buy now quantity=%d exceeds %d", b.Lines[0].Quantity, MaxBuyNowQuantity)
	}
	return validateLines(b.Lines)
}

type Summary struct {
	Cart        Cart            `json:"cart"`
	ItemCount   int             `json:"itemCount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	WeightGrams int             `json:"weightGrams"`
}

func validateLines(lines []CartLine) error {
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.ProductID == "" {
			return errors.New("cart line without productId")
		}
		if _, ok := seen[line.ProductID]; ok {
			return fmt.Errorf("duplicate cart line productId=%s", line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
		if line.Quantity < 1 {
			return fmt.Errorf("cart line productId=%s has quantity=%d", line.ProductID, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("cart line productId=%s has negative price", line.ProductID)
		}
		if line.WeightGrams < 0 {
			return fmt.Errorf("cart line productId=%s has negative weight", line.ProductID)
		}
	}
	return nil
}

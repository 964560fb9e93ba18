package service

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Alturino/plantstore/cart/request"
	"github.com/Alturino/plantstore/cart/response"
)

// AddOrIncrement bumps the quantity of an existing line or appends a new
// line with quantity 1. The input cart is not modified.
func AddOrIncrement(cart response.Cart, product request.Product) response.Cart {
	lines := slices.Clone(cart.Lines)
	if i := cart.IndexOf(product.ID); i >= 0 {
		lines[i].Quantity++
		return response.Cart{Lines: lines}
	}
	return response.Cart{Lines: append(lines, NewLine(product, 1))}
}

// Decrement never takes a line below 1; removal is explicit. Unknown ids
// are ignored.
func Decrement(cart response.Cart, productID string) response.Cart {
	lines := slices.Clone(cart.Lines)
	if i := cart.IndexOf(productID); i >= 0 && lines[i].Quantity > 1 {
		lines[i].Quantity--
	}
	return response.Cart{Lines: lines}
}

func Remove(cart response.Cart, productID string) response.Cart {
	lines := slices.DeleteFunc(slices.Clone(cart.Lines), func(line response.CartLine) bool {
		return line.ProductID == productID
	})
	return response.Cart{Lines: lines}
}

func NewLine(product request.Product, quantity int) response.CartLine {
	weight := product.WeightGrams
	if weight <= 0 {
		weight = response.DefaultWeightGrams
	}
	return response.CartLine{
		ProductID:   product.ID,
		Name:        product.Name,
		UnitPrice:   product.Price,
		Quantity:    quantity,
		ImageRef:    product.Image,
		WeightGrams: weight,
	}
}

// Subtotal is the unrounded sum of unit price times quantity.
func Subtotal(lines []response.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

func TotalWeightGrams(lines []response.CartLine) int {
	total := 0
	for _, line := range lines {
		weight := line.WeightGrams
		if weight <= 0 {
			weight = response.DefaultWeightGrams
		}
		total += weight * line.Quantity
	}
	return total
}

func ItemCount(lines []response.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

func Summarize(cart response.Cart) response.Summary {
	if cart.Lines == nil {
		cart.Lines = []response.CartLine{}
	}
	return response.Summary{
		Cart:        cart,
		ItemCount:   ItemCount(cart.Lines),
		Subtotal:    Subtotal(cart.Lines),
		WeightGrams: TotalWeightGrams(cart.Lines),
	}
}

func clampBuyNowQuantity(quantity int) int {
	return max(1, min(response.MaxBuyNowQuantity, quantity))
}

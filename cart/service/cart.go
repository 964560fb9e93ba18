package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/plantstore/cart/request"
	"github.com/Alturino/plantstore/cart/response"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/metrics"
	"github.com/Alturino/plantstore/internal/otel"
)

type store[T any] interface {
	Load(c context.Context, clientID string) (T, bool, error)
	Save(c context.Context, clientID string, value T) error
	Clear(c context.Context, clientID string) error
}

// CartService owns the persisted cart and the buy-now override of every
// client. Each mutation is saved before it returns.
type CartService struct {
	carts  store[response.Cart]
	buyNow store[response.BuyNow]
}

func NewCartService(carts store[response.Cart], buyNow store[response.BuyNow]) *CartService {
	return &CartService{carts: carts, buyNow: buyNow}
}

func (svc *CartService) Load(c context.Context, clientID string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService Load")
	defer span.End()

	cart, _, err := svc.carts.Load(c, clientID)
	if err != nil {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		otel.RecordError(err, span)
		return response.Cart{}, err
	}
	return cart, nil
}

func (svc *CartService) GetCart(c context.Context, clientID string) (response.Summary, error) {
	cart, err := svc.Load(c, clientID)
	if err != nil {
		return response.Summary{}, err
	}
	return Summarize(cart), nil
}

func (svc *CartService) AddOrIncrement(
	c context.Context,
	clientID string,
	product request.Product,
) (response.Summary, error) {
	return svc.mutate(c, clientID, "add", func(cart response.Cart) response.Cart {
		return AddOrIncrement(cart, product)
	})
}

func (svc *CartService) Decrement(
	c context.Context,
	clientID string,
	productID string,
) (response.Summary, error) {
	return svc.mutate(c, clientID, "decrement", func(cart response.Cart) response.Cart {
		return Decrement(cart, productID)
	})
}

func (svc *CartService) Remove(
	c context.Context,
	clientID string,
	productID string,
) (response.Summary, error) {
	return svc.mutate(c, clientID, "remove", func(cart response.Cart) response.Cart {
		return Remove(cart, productID)
	})
}

func (svc *CartService) Clear(c context.Context, clientID string) (response.Summary, error) {
	return svc.mutate(c, clientID, "clear", func(response.Cart) response.Cart {
		return response.Cart{Lines: []response.CartLine{}}
	})
}

func (svc *CartService) mutate(
	c context.Context,
	clientID string,
	operation string,
	apply func(response.Cart) response.Cart,
) (response.Summary, error) {
	c, span := otel.Tracer.Start(c, "CartService "+operation)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService mutate").
		Str(log.KeyClientID, clientID).
		Str(log.KeyProcess, operation).
		Logger()

	logger.Trace().Msg("loading cart")
	cart, _, err := svc.carts.Load(c, clientID)
	if err != nil {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Summary{}, err
	}

	cart = apply(cart)
	logger = logger.With().Int(log.KeyCartLines, len(cart.Lines)).Logger()

	logger.Trace().Msg("saving cart")
	if err = svc.carts.Save(c, clientID, cart); err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Summary{}, err
	}
	metrics.CartMutations.WithLabelValues(operation).Inc()
	logger.Info().Msg("saved cart")

	return Summarize(cart), nil
}

// SetBuyNow replaces the buy-now override with a single line. The quantity
// is clamped to [1, 10].
func (svc *CartService) SetBuyNow(
	c context.Context,
	clientID string,
	param request.BuyNow,
) (response.BuyNow, error) {
	c, span := otel.Tracer.Start(c, "CartService SetBuyNow")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService SetBuyNow").
		Str(log.KeyClientID, clientID).
		Str(log.KeyProductID, param.Product.ID).
		Int(log.KeyQuantity, param.Quantity).
		Logger()

	buyNow := response.BuyNow{
		Lines: []response.CartLine{NewLine(param.Product, clampBuyNowQuantity(param.Quantity))},
	}
	if err := svc.buyNow.Save(c, clientID, buyNow); err != nil {
		err = fmt.Errorf("failed saving buy now item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.BuyNow{}, err
	}
	logger.Info().Msg("saved buy now item")

	return buyNow, nil
}

func (svc *CartService) BuyNowLines(c context.Context, clientID string) ([]response.CartLine, error) {
	buyNow, _, err := svc.buyNow.Load(c, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed loading buy now item with error=%w", err)
	}
	return buyNow.Lines, nil
}

func (svc *CartService) ClearBuyNow(c context.Context, clientID string) error {
	if err := svc.buyNow.Clear(c, clientID); err != nil {
		return fmt.Errorf("failed clearing buy now item with error=%w", err)
	}
	return nil
}

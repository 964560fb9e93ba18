package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	cartResponse "github.com/Alturino/plantstore/cart/response"
	cartService "github.com/Alturino/plantstore/cart/service"
	checkoutResponse "github.com/Alturino/plantstore/checkout/response"
	checkoutService "github.com/Alturino/plantstore/checkout/service"
	incidentService "github.com/Alturino/plantstore/incident/service"
	"github.com/Alturino/plantstore/internal/backend"
	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/internal/constants"
	"github.com/Alturino/plantstore/internal/infra"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/metrics"
	inOtel "github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/repository"
	"github.com/Alturino/plantstore/internal/storage"
	"github.com/Alturino/plantstore/internal/token"
	"github.com/Alturino/plantstore/internal/validate"
	orderService "github.com/Alturino/plantstore/order/service"
	productService "github.com/Alturino/plantstore/product/service"
	shippingService "github.com/Alturino/plantstore/shipping/service"
	userResponse "github.com/Alturino/plantstore/user/response"
	userService "github.com/Alturino/plantstore/user/service"
)

func runStorefront(c context.Context, configName string) {
	c, span := inOtel.Tracer.Start(c, "main runStorefront")
	defer span.End()

	cfg := config.InitConfig(c, configName)

	logger := log.InitLogger(cfg.LogOptions()).
		With().
		Str(log.KeyAppName, constants.APP_STOREFRONT).
		Str(log.KeyTag, "main runStorefront").
		Logger()
	c = logger.WithContext(c)

	decimal.MarshalJSONWithoutQuotes = true

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.APP_STOREFRONT, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := inOtel.ShutdownOtel(context.WithoutCancel(c), shutdownFuncs); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing metrics").Logger()
	registry, err := metrics.NewRegistry()
	if err != nil {
		err = fmt.Errorf("failed registering metrics with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized metrics")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer func() {
		logger.Info().Msg("closing database")
		db.Close()
		logger.Info().Msg("closed database")
	}()
	queries := repository.New(db)
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger.Info().Msg("closing cache")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed closing cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("closed cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	validator := validate.New(cfg.Checkout)
	client := backend.NewClient(cfg.Backend.BaseURL, nil)
	issuer := token.NewIssuer(cfg.Application.SecretKey)

	carts := cartService.NewCartService(
		storage.NewSlot[cartResponse.Cart](cache, constants.KEY_CLIENT_CART),
		storage.NewSlot[cartResponse.BuyNow](cache, constants.KEY_CLIENT_BUY_NOW),
	)
	auth := userService.NewAuthService(
		client,
		storage.NewSlot[userResponse.Session](cache, constants.KEY_CLIENT_SESSION),
		storage.NewSlot[userResponse.Pending](cache, constants.KEY_CLIENT_PENDING),
		validator,
		cfg.Checkout,
	)
	shipping := shippingService.NewShippingService(client, cfg.Shipping, cfg.Checkout)
	incidents := incidentService.NewIncidentService(queries)
	checkout := checkoutService.NewCheckoutService(
		carts,
		shipping,
		auth,
		client,
		incidents,
		storage.NewSlot[checkoutResponse.Session](cache, constants.KEY_CLIENT_CHECKOUT),
		validator,
		cfg.Checkout,
	)
	catalog := productService.NewCatalogService(client, cache, cfg.Catalog)
	orders := orderService.NewOrderService(client, auth, validator, cfg.Checkout)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := newRouter(registry, storefront{
		issuer:    issuer,
		validate:  validator,
		checkout:  cfg.Checkout,
		carts:     carts,
		auth:      auth,
		shipping:  shipping,
		checkouts: checkout,
		catalog:   catalog,
		orders:    orders,
	})
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	server := http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext: func(net.Listener) context.Context {
			lg := logger.With().
				Reset().
				Timestamp().
				Caller().
				Stack().
				Str(log.KeyAppName, constants.APP_STOREFRONT).
				Logger()
			return lg.WithContext(context.WithoutCancel(c))
		},
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	go func() {
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("encounter error=%w while running server", err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutting down server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("shutdown server")
}

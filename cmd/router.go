package cmd

import (
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	cartController "github.com/Alturino/plantstore/cart/controller"
	cartService "github.com/Alturino/plantstore/cart/service"
	checkoutController "github.com/Alturino/plantstore/checkout/controller"
	checkoutService "github.com/Alturino/plantstore/checkout/service"
	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/internal/constants"
	"github.com/Alturino/plantstore/internal/middleware"
	"github.com/Alturino/plantstore/internal/token"
	orderController "github.com/Alturino/plantstore/order/controller"
	orderService "github.com/Alturino/plantstore/order/service"
	productController "github.com/Alturino/plantstore/product/controller"
	productService "github.com/Alturino/plantstore/product/service"
	shippingController "github.com/Alturino/plantstore/shipping/controller"
	shippingService "github.com/Alturino/plantstore/shipping/service"
	userController "github.com/Alturino/plantstore/user/controller"
	userService "github.com/Alturino/plantstore/user/service"
)

type storefront struct {
	issuer    *token.Issuer
	validate  *validator.Validate
	checkout  config.Checkout
	carts     *cartService.CartService
	auth      *userService.AuthService
	shipping  *shippingService.ShippingService
	checkouts *checkoutService.CheckoutService
	catalog   *productService.CatalogService
	orders    *orderService.OrderService
}

// newRouter mounts every storefront route under /storefront. Issuing a
// client token and reading the catalog are public; everything else needs
// the X-Client-Token header.
func newRouter(registry *prometheus.Registry, s storefront) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	api := router.PathPrefix("/storefront").Subrouter()
	api.Use(
		otelmux.Middleware(constants.APP_STOREFRONT),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	userController.AttachClientController(api, s.issuer)
	productController.AttachCatalogController(api, s.catalog)

	clientRouter := api.NewRoute().Subrouter()
	clientRouter.Use(middleware.ClientToken(s.issuer))
	cartController.AttachCartController(clientRouter, s.carts, s.validate, s.checkout)
	shippingController.AttachShippingController(clientRouter, s.shipping, s.carts, s.auth)
	userController.AttachAuthController(clientRouter, s.auth)
	checkoutController.AttachCheckoutController(clientRouter, s.checkouts)
	orderController.AttachOrderController(clientRouter, s.orders)

	return router
}

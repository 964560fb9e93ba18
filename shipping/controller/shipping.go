package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	cartRequest "github.com/Alturino/plantstore/cart/request"
	cartService "github.com/Alturino/plantstore/cart/service"
	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/token"
	"github.com/Alturino/plantstore/shipping/service"
	userService "github.com/Alturino/plantstore/user/service"
)

type ShippingController struct {
	shipping *service.ShippingService
	carts    *cartService.CartService
	auth     *userService.AuthService
}

func AttachShippingController(
	router *mux.Router,
	shipping *service.ShippingService,
	carts *cartService.CartService,
	auth *userService.AuthService,
) {
	controller := ShippingController{shipping: shipping, carts: carts, auth: auth}

	shippingRouter := router.PathPrefix("/shipping").Subrouter()
	shippingRouter.HandleFunc("/quick-check", controller.QuickCheck).Methods(http.MethodPost)
}

// QuickCheck estimates shipping for the whole persisted cart. The flat
// rate stands in for a failed estimate.
func (ctrl ShippingController) QuickCheck(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ShippingController QuickCheck")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ShippingController QuickCheck").
		Logger()

	reqBody := cartRequest.ShippingQuickCheck{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	clientID, _ := token.ClientIDFromContext(c)
	summary, err := ctrl.carts.GetCart(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	session, _, err := ctrl.auth.Current(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	quickCheck, err := ctrl.shipping.QuickCheck(c, session.Token, reqBody.PostalCode, summary)
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully estimated shipping",
		"data":       map[string]interface{}{"shipping": quickCheck},
	})
}

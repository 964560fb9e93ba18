package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/plantstore/cart/request"
	"github.com/Alturino/plantstore/cart/service"
	"github.com/Alturino/plantstore/internal/config"
	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/token"
	"github.com/Alturino/plantstore/internal/validate"
)

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
	cfg      config.Checkout
}

// AttachCartController mounts the cart routes on a router that already
// resolves the client token.
func AttachCartController(
	router *mux.Router,
	service *service.CartService,
	validate *validator.Validate,
	cfg config.Checkout,
) {
	controller := CartController{service: service, validate: validate, cfg: cfg}

	cartRouter := router.PathPrefix("/cart").Subrouter()
	cartRouter.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	cartRouter.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	cartRouter.HandleFunc("/items", controller.AddToCart).Methods(http.MethodPost)
	cartRouter.HandleFunc("/items/{productId}/decrement", controller.Decrement).Methods(http.MethodPost)
	cartRouter.HandleFunc("/items/{productId}", controller.Remove).Methods(http.MethodDelete)
	cartRouter.HandleFunc("/buy-now", controller.SetBuyNow).Methods(http.MethodPut)
	cartRouter.HandleFunc("/buy-now", controller.GetBuyNow).Methods(http.MethodGet)
	cartRouter.HandleFunc("/buy-now", controller.ClearBuyNow).Methods(http.MethodDelete)
}

func (ctrl CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	summary, err := ctrl.service.GetCart(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found cart",
		"data":       map[string]interface{}{"cart": summary},
	})
}

func (ctrl CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddToCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddToCart").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.AddToCart{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	if err := ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = validate.Fields(err, ctrl.cfg)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(log.KeyProcess, "adding to cart").
		Str(log.KeyProductID, reqBody.Product.ID).
		Logger()
	c = logger.WithContext(c)
	clientID, _ := token.ClientIDFromContext(c)
	summary, err := ctrl.service.AddOrIncrement(c, clientID, reqBody.Product)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("added to cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully added to cart",
		"data":       map[string]interface{}{"cart": summary},
	})
}

func (ctrl CartController) Decrement(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Decrement")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	clientID, _ := token.ClientIDFromContext(c)
	summary, err := ctrl.service.Decrement(c, clientID, productID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully decremented cart item",
		"data":       map[string]interface{}{"cart": summary},
	})
}

func (ctrl CartController) Remove(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Remove")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	clientID, _ := token.ClientIDFromContext(c)
	summary, err := ctrl.service.Remove(c, clientID, productID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully removed cart item",
		"data":       map[string]interface{}{"cart": summary},
	})
}

func (ctrl CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	summary, err := ctrl.service.Clear(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully cleared cart",
		"data":       map[string]interface{}{"cart": summary},
	})
}

func (ctrl CartController) SetBuyNow(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController SetBuyNow")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController SetBuyNow").
		Logger()

	reqBody := request.BuyNow{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	if err := ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = validate.Fields(err, ctrl.cfg)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	clientID, _ := token.ClientIDFromContext(c)
	buyNow, err := ctrl.service.SetBuyNow(c, clientID, reqBody)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully saved buy now item",
		"data":       map[string]interface{}{"buyNow": buyNow},
	})
}

func (ctrl CartController) GetBuyNow(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetBuyNow")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	lines, err := ctrl.service.BuyNowLines(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found buy now item",
		"data":       map[string]interface{}{"lines": lines},
	})
}

func (ctrl CartController) ClearBuyNow(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearBuyNow")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	if err := ctrl.service.ClearBuyNow(c, clientID); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully cleared buy now item",
	})
}

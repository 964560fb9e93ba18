package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/plantstore/checkout/request"
	"github.com/Alturino/plantstore/checkout/response"
	"github.com/Alturino/plantstore/checkout/service"
	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/token"
)

type CheckoutController struct {
	service *service.CheckoutService
}

func AttachCheckoutController(router *mux.Router, service *service.CheckoutService) {
	controller := CheckoutController{service: service}

	checkoutRouter := router.PathPrefix("/checkout").Subrouter()
	checkoutRouter.HandleFunc("", controller.Begin).Methods(http.MethodPost)
	checkoutRouter.HandleFunc("", controller.Current).Methods(http.MethodGet)
	checkoutRouter.HandleFunc("", controller.Abandon).Methods(http.MethodDelete)
	checkoutRouter.HandleFunc("/address", controller.UpdateAddress).Methods(http.MethodPut)
	checkoutRouter.HandleFunc("/shipping/retry", controller.RetryShipping).Methods(http.MethodPost)
	checkoutRouter.HandleFunc("/submit", controller.Submit).Methods(http.MethodPost)
	checkoutRouter.HandleFunc("/resume", controller.Resume).Methods(http.MethodPost)
	checkoutRouter.HandleFunc("/payment/success", controller.PaymentSucceeded).Methods(http.MethodPost)
	checkoutRouter.HandleFunc("/payment/failure", controller.PaymentFailed).Methods(http.MethodPost)
	checkoutRouter.HandleFunc("/payment/dismiss", controller.PaymentDismissed).Methods(http.MethodPost)
}

func (ctrl CheckoutController) Begin(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Begin")
	defer span.End()

	reqBody := request.Begin{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	clientID, _ := token.ClientIDFromContext(c)
	s, err := ctrl.service.Begin(c, clientID, reqBody)
	ctrl.write(w, r.WithContext(c), s, err, "successfully began checkout")
}

func (ctrl CheckoutController) Current(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Current")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	s, err := ctrl.service.Current(c, clientID)
	ctrl.write(w, r.WithContext(c), s, err, "successfully found checkout")
}

func (ctrl CheckoutController) Abandon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Abandon")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	if err := ctrl.service.Abandon(c, clientID); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully abandoned checkout",
	})
}

func (ctrl CheckoutController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController UpdateAddress")
	defer span.End()

	reqBody := request.UpdateAddress{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	clientID, _ := token.ClientIDFromContext(c)
	s, err := ctrl.service.UpdateAddress(c, clientID, reqBody)
	ctrl.write(w, r.WithContext(c), s, err, "successfully updated address")
}

func (ctrl CheckoutController) RetryShipping(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController RetryShipping")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	s, err := ctrl.service.RetryShipping(c, clientID)
	ctrl.write(w, r.WithContext(c), s, err, "successfully estimated shipping")
}

func (ctrl CheckoutController) Submit(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Submit")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	s, err := ctrl.service.Submit(c, clientID)
	ctrl.write(w, r.WithContext(c), s, err, submitMessage(s))
}

func (ctrl CheckoutController) Resume(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Resume")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	s, err := ctrl.service.Resume(c, clientID)
	ctrl.write(w, r.WithContext(c), s, err, submitMessage(s))
}

func (ctrl CheckoutController) PaymentSucceeded(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController PaymentSucceeded")
	defer span.End()

	reqBody := request.PaymentSucceeded{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	clientID, _ := token.ClientIDFromContext(c)
	s, err := ctrl.service.PaymentSucceeded(c, clientID, reqBody)
	ctrl.write(w, r.WithContext(c), s, err, "Order Placed Successfully!")
}

func (ctrl CheckoutController) PaymentFailed(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController PaymentFailed")
	defer span.End()

	reqBody := request.PaymentFailed{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	clientID, _ := token.ClientIDFromContext(c)
	s, err := ctrl.service.PaymentFailed(c, clientID, reqBody)
	ctrl.write(w, r.WithContext(c), s, err, "payment failed")
}

func (ctrl CheckoutController) PaymentDismissed(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController PaymentDismissed")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	s, err := ctrl.service.PaymentDismissed(c, clientID)
	ctrl.write(w, r.WithContext(c), s, err, service.MessagePaymentCancelled)
}

// write answers with the checkout as left by the step, failed or not.
func (ctrl CheckoutController) write(
	w http.ResponseWriter,
	r *http.Request,
	s response.Session,
	err error,
	message string,
) {
	c := r.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController write").
		Str(log.KeyCheckoutID, s.ID).
		Str(log.KeyCheckoutState, string(s.State)).
		Logger()

	if err != nil {
		logger.Info().Err(err).Msg(err.Error())
		if s.ID == "" {
			inHttp.WriteErrorResponse(c, w, err)
			return
		}
		inHttp.WriteErrorResponseWithData(c, w, err, map[string]interface{}{"checkout": s})
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    message,
		"data":       map[string]interface{}{"checkout": s},
	})
}

func submitMessage(s response.Session) string {
	if s.State == response.StateAuthRequired {
		return "Please login to continue"
	}
	return "payment ready"
}

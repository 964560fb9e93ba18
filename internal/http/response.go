package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/plantstore/internal/errors"
	"github.com/Alturino/plantstore/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str("tag", "WriteJsonResponse").Logger()

	w.Header().Add(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	if v, ok := body["statusCode"]; ok {
		w.WriteHeader(v.(int))
	}

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

var authStatus = map[inErrors.AuthKind]int{
	inErrors.AuthInvalidCredentials: http.StatusUnauthorized,
	inErrors.AuthUserNotFound:       http.StatusNotFound,
	inErrors.AuthUserExists:         http.StatusConflict,
	inErrors.AuthInvalidUserData:    http.StatusBadRequest,
	inErrors.AuthUnknown:            http.StatusBadGateway,
}

// WriteErrorResponse maps the storefront error taxonomy onto a failed
// response body.
func WriteErrorResponse(c context.Context, w http.ResponseWriter, err error) {
	WriteJsonResponse(c, w, map[string]string{}, ErrorBody(err))
}

// WriteErrorResponseWithData is WriteErrorResponse that also returns the
// state the failed step left behind.
func WriteErrorResponseWithData(
	c context.Context,
	w http.ResponseWriter,
	err error,
	data map[string]interface{},
) {
	body := ErrorBody(err)
	body["data"] = data
	WriteJsonResponse(c, w, map[string]string{}, body)
}

func ErrorBody(err error) map[string]interface{} {
	body := map[string]interface{}{
		"status":     "failed",
		"statusCode": http.StatusInternalServerError,
		"message":    err.Error(),
	}

	var (
		validation     *inErrors.ValidationError
		remote         *inErrors.RemoteError
		payment        *inErrors.PaymentFailure
		reconciliation *inErrors.ReconciliationFailure
		auth           *inErrors.AuthError
	)
	switch {
	case errors.As(err, &validation):
		body["statusCode"] = http.StatusBadRequest
		body["errorCode"] = "VALIDATION_ERROR"
		body["message"] = "Please fill in all shipping details"
		if validation.Message != "" {
			body["message"] = validation.Message
		}
		body["fields"] = validation.Fields
	case errors.As(err, &reconciliation):
		body["statusCode"] = http.StatusBadGateway
		body["errorCode"] = "ORDER_RECORDING_FAILED"
		body["message"] = reconciliation.Error()
	case errors.As(err, &payment):
		body["statusCode"] = http.StatusPaymentRequired
		body["errorCode"] = "PAYMENT_FAILED"
		body["message"] = payment.Error()
	case errors.As(err, &auth):
		body["statusCode"] = authStatus[auth.Kind]
		body["errorCode"] = string(auth.Kind)
		body["message"] = auth.Message
	case errors.Is(err, inErrors.ErrEstimationFailed):
		body["statusCode"] = http.StatusBadGateway
		body["errorCode"] = "ESTIMATION_FAILED"
		body["message"] = "Could not estimate shipping."
	case errors.As(err, &remote):
		body["statusCode"] = http.StatusBadGateway
		if remote.StatusCode >= 400 && remote.StatusCode < 500 {
			body["statusCode"] = remote.StatusCode
		}
		body["errorCode"] = remote.Code
		body["message"] = remote.UserMessage()
	case errors.Is(err, inErrors.ErrNoSession),
		errors.Is(err, inErrors.ErrEmptyAuth),
		errors.Is(err, inErrors.ErrEmptySubject),
		errors.Is(err, inErrors.ErrTokenInvalid):
		body["statusCode"] = http.StatusUnauthorized
	case errors.Is(err, inErrors.ErrInvalidTransition),
		errors.Is(err, inErrors.ErrShippingNotQuoted):
		body["statusCode"] = http.StatusConflict
	case errors.Is(err, inErrors.ErrNoCheckout),
		errors.Is(err, inErrors.ErrNoPendingSignup):
		body["statusCode"] = http.StatusNotFound
	case errors.Is(err, inErrors.ErrEmptyCheckout):
		body["statusCode"] = http.StatusBadRequest
	}

	return body
}

package middleware

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/plantstore/internal/errors"
	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
)

// RecoverPanic turns a panicking handler into a 500 carrying the request id.
func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, span := otel.Tracer.Start(r.Context(), "middleware RecoverPanic")
		defer span.End()

		requestID := log.RequestIDFromContext(c)
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "middleware RecoverPanic").
			Str(log.KeyRequestID, requestID).
			Logger()
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			err, ok := recovered.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", recovered)
			}
			err = errors.WithStack(err)
			logger.Error().Err(err).Stack().Str(log.KeyRequestMethod, r.Method).Str(log.KeyRequestURI, r.RequestURI).Msg("recovered from panic")
			otel.RecordError(err, span)
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusInternalServerError,
				"errorCode":  inErrors.CodeUnknownError,
				"message":    inErrors.MessageForCode(inErrors.CodeUnknownError, ""),
				"requestId":  requestID,
			})
		}()

		next.ServeHTTP(w, r.WithContext(c))
	})
}

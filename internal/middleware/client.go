package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/plantstore/internal/errors"
	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/token"
)

type tokenVerifier interface {
	Verify(c context.Context, signed string) (string, error)
}

// ClientToken resolves the X-Client-Token header into the client id that
// keys every piece of persisted state.
func ClientToken(verifier tokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware ClientToken")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware ClientToken").Logger()

			signed := r.Header.Get(inHttp.KEY_HEADER_CLIENT_TOKEN)
			if signed == "" {
				err := inErrors.ErrEmptyAuth
				otel.RecordError(err, span)
				logger.Info().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, err)
				return
			}

			clientID, err := verifier.Verify(c, signed)
			if err != nil {
				otel.RecordError(err, span)
				logger.Info().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, err)
				return
			}

			logger = logger.With().Str(log.KeyClientID, clientID).Logger()
			c = token.AttachClientID(c, clientID)
			c = logger.WithContext(c)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

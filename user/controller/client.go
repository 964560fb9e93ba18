package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/token"
)

type ClientController struct {
	issuer *token.Issuer
}

// AttachClientController mounts the only route that works without a
// client token: issuing one.
func AttachClientController(router *mux.Router, issuer *token.Issuer) {
	controller := ClientController{issuer: issuer}
	router.HandleFunc("/clients", controller.IssueClient).Methods(http.MethodPost)
}

func (ctrl ClientController) IssueClient(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ClientController IssueClient")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ClientController IssueClient").
		Logger()

	signed, clientID, err := ctrl.issuer.Issue(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyClientID, clientID).Msg("issued client token")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "successfully issued client token",
		"data": map[string]interface{}{
			"clientId": clientID,
			"token":    signed,
		},
	})
}

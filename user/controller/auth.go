package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/token"
	"github.com/Alturino/plantstore/user/request"
	"github.com/Alturino/plantstore/user/service"
)

type AuthController struct {
	service *service.AuthService
}

func AttachAuthController(router *mux.Router, service *service.AuthService) {
	controller := AuthController{service: service}

	authRouter := router.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	authRouter.HandleFunc("/register", controller.Register).Methods(http.MethodPost)
	authRouter.HandleFunc("/register/confirm", controller.Confirm).Methods(http.MethodPost)
	authRouter.HandleFunc("/register/resend", controller.ResendCode).Methods(http.MethodPost)
	authRouter.HandleFunc("/reset-password", controller.ResetPassword).Methods(http.MethodPost)
	authRouter.HandleFunc("/logout", controller.Logout).Methods(http.MethodPost)
	authRouter.HandleFunc("/session", controller.Session).Methods(http.MethodGet)
}

func (ctrl AuthController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController Login").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	reqBody := request.Login{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "logging in").Str(log.KeyEmail, reqBody.Email).Logger()
	clientID, _ := token.ClientIDFromContext(c)
	session, err := ctrl.service.Login(c, clientID, reqBody)
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("logged in")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully logged in",
		"data":       map[string]interface{}{"user": session.Profile()},
	})
}

func (ctrl AuthController) Register(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController Register")
	defer span.End()

	reqBody := request.Register{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	clientID, _ := token.ClientIDFromContext(c)
	pending, err := ctrl.service.Register(c, clientID, reqBody)
	if err != nil && pending.Email != "" {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponseWithData(c, w, err, map[string]interface{}{"pending": pending})
		return
	}
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusAccepted,
		"message":    "verification code sent",
		"data":       map[string]interface{}{"pending": pending},
	})
}

func (ctrl AuthController) Confirm(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController Confirm")
	defer span.End()

	reqBody := request.Confirm{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	clientID, _ := token.ClientIDFromContext(c)
	session, err := ctrl.service.Confirm(c, clientID, reqBody)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully verified account",
		"data":       map[string]interface{}{"user": session.Profile()},
	})
}

func (ctrl AuthController) ResendCode(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController ResendCode")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	pending, err := ctrl.service.ResendCode(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusAccepted,
		"message":    "verification code sent",
		"data":       map[string]interface{}{"pending": pending},
	})
}

func (ctrl AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController ResetPassword")
	defer span.End()

	reqBody := request.ResetPassword{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	if err := ctrl.service.ResetPassword(c, reqBody); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully reset password",
	})
}

func (ctrl AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController Logout")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	if err := ctrl.service.Logout(c, clientID); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully logged out",
	})
}

func (ctrl AuthController) Session(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController Session")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	session, err := ctrl.service.RequireSession(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found session",
		"data":       map[string]interface{}{"user": session.Profile()},
	})
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Alturino/plantstore/internal/config"
	inErrors "github.com/Alturino/plantstore/internal/errors"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/validate"
	"github.com/Alturino/plantstore/user/request"
	"github.com/Alturino/plantstore/user/response"
)

type authClient interface {
	Login(c context.Context, param request.Login) (response.Session, error)
	Register(c context.Context, param request.Register) error
	SendOtp(c context.Context, email string) error
	VerifyOtp(c context.Context, email, otp string) (response.Session, error)
	ResetPassword(c context.Context, param request.ResetPassword) error
}

type store[T any] interface {
	Load(c context.Context, clientID string) (T, bool, error)
	Save(c context.Context, clientID string, value T) error
	Clear(c context.Context, clientID string) error
}

// AuthService keeps the session snapshot of every client. A session has
// no expiry and lives until Logout.
type AuthService struct {
	client   authClient
	sessions store[response.Session]
	pending  store[response.Pending]
	validate *validator.Validate
	checkout config.Checkout
	now      func() time.Time
}

func NewAuthService(
	client authClient,
	sessions store[response.Session],
	pending store[response.Pending],
	validate *validator.Validate,
	checkout config.Checkout,
) *AuthService {
	return &AuthService{
		client:   client,
		sessions: sessions,
		pending:  pending,
		validate: validate,
		checkout: checkout,
		now:      time.Now,
	}
}

func (svc *AuthService) Login(
	c context.Context,
	clientID string,
	param request.Login,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "AuthService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService Login").
		Str(log.KeyClientID, clientID).
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	if err := svc.validate.StructCtx(c, param); err != nil {
		err = validate.Fields(err, svc.checkout)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "logging in").Logger()
	logger.Trace().Msg("logging in")
	c = logger.WithContext(c)
	session, err := svc.client.Login(c, param)
	if err != nil {
		err = inErrors.NewAuthError(err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if err = session.Validate(); err != nil {
		err = inErrors.NewAuthError(err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Object(log.KeySession, session).Msg("logged in")

	if err = svc.persist(c, clientID, session); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}

	return session, nil
}

// Register creates the account and sends the verification code. The
// registration stays pending until Confirm.
func (svc *AuthService) Register(
	c context.Context,
	clientID string,
	param request.Register,
) (response.Pending, error) {
	c, span := otel.Tracer.Start(c, "AuthService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService Register").
		Str(log.KeyClientID, clientID).
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	if err := svc.validate.StructCtx(c, param); err != nil {
		err = validate.Fields(err, svc.checkout)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Pending{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "registering").Logger()
	logger.Trace().Msg("registering")
	c = logger.WithContext(c)
	if err := svc.client.Register(c, param); err != nil {
		err = inErrors.NewAuthError(err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Pending{}, err
	}
	logger.Info().Msg("registered")

	// Kept pending before the code is sent so ResendCode works after a
	// failed send.
	pending := response.Pending{Name: param.Name, Email: param.Email, RequestedAt: svc.now().UTC()}
	if err := svc.pending.Save(c, clientID, pending); err != nil {
		err = fmt.Errorf("failed saving pending registration with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Pending{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "sending verification code").Logger()
	if err := svc.client.SendOtp(c, param.Email); err != nil {
		err = inErrors.NewAuthError(err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return pending, err
	}
	logger.Info().Msg("sent verification code")

	return pending, nil
}

func (svc *AuthService) Confirm(
	c context.Context,
	clientID string,
	param request.Confirm,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "AuthService Confirm")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService Confirm").
		Str(log.KeyClientID, clientID).
		Logger()

	if err := svc.validate.StructCtx(c, param); err != nil {
		err = validate.Fields(err, svc.checkout)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	pending, err := svc.loadPending(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger = logger.With().Str(log.KeyEmail, pending.Email).Logger()

	logger = logger.With().Str(log.KeyProcess, "verifying code").Logger()
	c = logger.WithContext(c)
	session, err := svc.client.VerifyOtp(c, pending.Email, param.Otp)
	if err == nil {
		err = session.Validate()
	}
	if err != nil {
		err = inErrors.NewAuthError(err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("verified code")

	if err = svc.persist(c, clientID, session); err != nil {
		otel.RecordError(err, span)
		return response.Session{}, err
	}
	if err = svc.pending.Clear(c, clientID); err != nil {
		err = fmt.Errorf("failed clearing pending registration with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	return session, nil
}

func (svc *AuthService) ResendCode(c context.Context, clientID string) (response.Pending, error) {
	c, span := otel.Tracer.Start(c, "AuthService ResendCode")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService ResendCode").
		Str(log.KeyClientID, clientID).
		Logger()

	pending, err := svc.loadPending(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Pending{}, err
	}

	if err = svc.client.SendOtp(c, pending.Email); err != nil {
		err = inErrors.NewAuthError(err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Pending{}, err
	}
	logger.Info().Str(log.KeyEmail, pending.Email).Msg("resent verification code")

	return pending, nil
}

func (svc *AuthService) ResetPassword(c context.Context, param request.ResetPassword) error {
	c, span := otel.Tracer.Start(c, "AuthService ResetPassword")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService ResetPassword").
		Str(log.KeyEmail, param.Email).
		Logger()

	if err := svc.validate.StructCtx(c, param); err != nil {
		err = validate.Fields(err, svc.checkout)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return err
	}

	if err := svc.client.ResetPassword(c, param); err != nil {
		err = inErrors.NewAuthError(err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("reset password")

	return nil
}

// Logout drops the session whatever its state.
func (svc *AuthService) Logout(c context.Context, clientID string) error {
	c, span := otel.Tracer.Start(c, "AuthService Logout")
	defer span.End()

	if err := svc.sessions.Clear(c, clientID); err != nil {
		err = fmt.Errorf("failed clearing session with error=%w", err)
		otel.RecordError(err, span)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyClientID, clientID).Msg(err.Error())
		return err
	}
	return nil
}

// Current returns the session or found=false when nobody is logged in.
func (svc *AuthService) Current(c context.Context, clientID string) (response.Session, bool, error) {
	session, found, err := svc.sessions.Load(c, clientID)
	if err != nil {
		return response.Session{}, false, fmt.Errorf("failed loading session with error=%w", err)
	}
	return session, found, nil
}

// RequireSession is Current that reports ErrNoSession when logged out.
func (svc *AuthService) RequireSession(c context.Context, clientID string) (response.Session, error) {
	session, found, err := svc.Current(c, clientID)
	if err != nil {
		return response.Session{}, err
	}
	if !found {
		return response.Session{}, inErrors.ErrNoSession
	}
	return session, nil
}

func (svc *AuthService) persist(c context.Context, clientID string, session response.Session) error {
	if err := svc.sessions.Save(c, clientID, session); err != nil {
		err = fmt.Errorf("failed saving session with error=%w", err)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyClientID, clientID).Msg(err.Error())
		return err
	}
	return nil
}

func (svc *AuthService) loadPending(c context.Context, clientID string) (response.Pending, error) {
	pending, found, err := svc.pending.Load(c, clientID)
	if err != nil {
		return response.Pending{}, fmt.Errorf("failed loading pending registration with error=%w", err)
	}
	if !found {
		return response.Pending{}, inErrors.ErrNoPendingSignup
	}
	return pending, nil
}

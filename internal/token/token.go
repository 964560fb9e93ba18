// Package token issues and verifies client tokens. A client token names
// one storefront installation; all persisted client state is keyed by its
// subject.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/plantstore/internal/constants"
	inErrors "github.com/Alturino/plantstore/internal/errors"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
)

type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for a new client id. Client tokens carry no expiry
// since the state they key never expires either.
func (i *Issuer) Issue(c context.Context) (signed string, clientID string, err error) {
	c, span := otel.Tracer.Start(c, "Issuer Issue")
	defer span.End()

	clientID = uuid.NewString()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Issuer Issue").
		Str(log.KeyClientID, clientID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "signing token").Logger()
	logger.Trace().Msg("signing token")
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{
			Audience: jwt.ClaimStrings{constants.AUDIENCE_CLIENT},
			Issuer:   constants.APP_STOREFRONT,
			Subject:  clientID,
			IssuedAt: jwt.NewNumericDate(i.now()),
			ID:       uuid.NewString(),
		},
	)
	signed, err = token.SignedString(i.secret)
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", "", err
	}
	logger.Info().Msg("signed token")

	return signed, clientID, nil
}

// Verify returns the client id the token was issued for.
func (i *Issuer) Verify(c context.Context, signed string) (string, error) {
	c, span := otel.Tracer.Start(c, "Issuer Verify")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Issuer Verify").
		Logger()

	if signed == "" {
		otel.RecordError(inErrors.ErrEmptyAuth, span)
		return "", inErrors.ErrEmptyAuth
	}

	logger = logger.With().Str(log.KeyProcess, "parsing claims").Logger()
	logger.Trace().Msg("parsing claims")
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(signed,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithAudience(constants.AUDIENCE_CLIENT),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.APP_STOREFRONT),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		err = fmt.Errorf("%w: failed parsing claims with error=%w", inErrors.ErrTokenInvalid, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	if !token.Valid {
		otel.RecordError(inErrors.ErrTokenInvalid, span)
		logger.Error().Err(inErrors.ErrTokenInvalid).Msg(inErrors.ErrTokenInvalid.Error())
		return "", inErrors.ErrTokenInvalid
	}

	if _, err = uuid.Parse(claims.Subject); err != nil {
		err = fmt.Errorf("%w: subject=%q with error=%w", inErrors.ErrEmptySubject, claims.Subject, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Trace().Str(log.KeyClientID, claims.Subject).Msg("verified token")

	return claims.Subject, nil
}

type clientIDKey struct{}

func AttachClientID(c context.Context, clientID string) context.Context {
	return context.WithValue(c, clientIDKey{}, clientID)
}

func ClientIDFromContext(c context.Context) (string, bool) {
	clientID, ok := c.Value(clientIDKey{}).(string)
	return clientID, ok && clientID != ""
}

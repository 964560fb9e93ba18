package service

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/internal/constants"
	inErrors "github.com/Alturino/plantstore/internal/errors"
	"github.com/Alturino/plantstore/internal/storage"
	"github.com/Alturino/plantstore/internal/validate"
	"github.com/Alturino/plantstore/user/request"
	"github.com/Alturino/plantstore/user/response"
)

type fakeAuthClient struct {
	session    response.Session
	loginErr   error
	registered []request.Register
	otpSent    []string
	otpErr     error
	verifyErr  error
	verified   []string
	resets     []request.ResetPassword
}

func (f *fakeAuthClient) Login(c context.Context, param request.Login) (response.Session, error) {
	return f.session, f.loginErr
}

func (f *fakeAuthClient) Register(c context.Context, param request.Register) error {
	f.registered = append(f.registered, param)
	return nil
}

func (f *fakeAuthClient) SendOtp(c context.Context, email string) error {
	f.otpSent = append(f.otpSent, email)
	err := f.otpErr
	f.otpErr = nil
	return err
}

func (f *fakeAuthClient) VerifyOtp(c context.Context, email, otp string) (response.Session, error) {
	f.verified = append(f.verified, email+":"+otp)
	return f.session, f.verifyErr
}

func (f *fakeAuthClient) ResetPassword(c context.Context, param request.ResetPassword) error {
	f.resets = append(f.resets, param)
	return nil
}

var asha = response.Session{UserID: "u1", Name: "Asha", Email: "asha@example.com", Token: "tok-1"}

func setupAuthService(t *testing.T, client *fakeAuthClient) (*AuthService, *miniredis.Miniredis, context.Context) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	cfg := config.Checkout{PhoneDigits: 10, PostalCodeDigits: 6}
	svc := NewAuthService(
		client,
		storage.NewSlot[response.Session](cache, constants.KEY_CLIENT_SESSION),
		storage.NewSlot[response.Pending](cache, constants.KEY_CLIENT_PENDING),
		validate.New(cfg),
		cfg,
	)
	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
	return svc, mr, c
}

func TestAuthService_Login(t *testing.T) {
	t.Run("persists the session", func(t *testing.T) {
		svc, mr, c := setupAuthService(t, &fakeAuthClient{session: asha})

		session, err := svc.Login(c, "client-1", request.Login{Email: "asha@example.com", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, asha, session)
		assert.True(t, mr.Exists("storefront:client-1:session"))

		current, found, err := svc.Current(c, "client-1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, asha, current)
	})

	t.Run("invalid credentials leave no session", func(t *testing.T) {
		client := &fakeAuthClient{loginErr: &inErrors.RemoteError{
			StatusCode: http.StatusUnauthorized,
			Code:       inErrors.CodeInvalidCredentials,
		}}
		svc, mr, c := setupAuthService(t, client)

		_, err := svc.Login(c, "client-1", request.Login{Email: "asha@example.com", Password: "wrong"})

		var authErr *inErrors.AuthError
		require.True(t, errors.As(err, &authErr))
		assert.Equal(t, inErrors.AuthInvalidCredentials, authErr.Kind)
		assert.False(t, mr.Exists("storefront:client-1:session"))
	})

	t.Run("malformed request never reaches the backend", func(t *testing.T) {
		svc, _, c := setupAuthService(t, &fakeAuthClient{session: asha})

		_, err := svc.Login(c, "client-1", request.Login{Email: "not-an-email"})

		var validation *inErrors.ValidationError
		require.True(t, errors.As(err, &validation))
		assert.Contains(t, validation.Fields, "email")
		assert.Contains(t, validation.Fields, "password")
	})
}

func TestAuthService_RegisterAndConfirm(t *testing.T) {
	client := &fakeAuthClient{session: asha}
	svc, mr, c := setupAuthService(t, client)

	_, err := svc.Confirm(c, "client-1", request.Confirm{Otp: "123456"})
	assert.ErrorIs(t, err, inErrors.ErrNoPendingSignup)

	pending, err := svc.Register(c, "client-1", request.Register{Name: "Asha", Email: "asha@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", pending.Email)
	assert.Equal(t, []string{"asha@example.com"}, client.otpSent)
	assert.True(t, mr.Exists("storefront:client-1:pending-registration"))

	_, err = svc.ResendCode(c, "client-1")
	require.NoError(t, err)
	assert.Len(t, client.otpSent, 2)

	session, err := svc.Confirm(c, "client-1", request.Confirm{Otp: "123456"})
	require.NoError(t, err)
	assert.Equal(t, asha, session)
	assert.Equal(t, []string{"asha@example.com:123456"}, client.verified)
	assert.False(t, mr.Exists("storefront:client-1:pending-registration"))
	assert.True(t, mr.Exists("storefront:client-1:session"))
}

func TestAuthService_RegisterRecoversFailedCodeSend(t *testing.T) {
	client := &fakeAuthClient{
		session: asha,
		otpErr:  &inErrors.RemoteError{StatusCode: http.StatusBadGateway, Code: inErrors.CodeUnknownError},
	}
	svc, mr, c := setupAuthService(t, client)

	pending, err := svc.Register(c, "client-1", request.Register{Name: "Asha", Email: "asha@example.com", Password: "secret"})

	var authErr *inErrors.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, inErrors.AuthUnknown, authErr.Kind)
	assert.Equal(t, "asha@example.com", pending.Email)
	assert.Len(t, client.registered, 1)
	assert.True(t, mr.Exists("storefront:client-1:pending-registration"))

	resent, err := svc.ResendCode(c, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", resent.Email)
	assert.Equal(t, []string{"asha@example.com", "asha@example.com"}, client.otpSent)

	session, err := svc.Confirm(c, "client-1", request.Confirm{Otp: "123456"})
	require.NoError(t, err)
	assert.Equal(t, asha, session)
	assert.False(t, mr.Exists("storefront:client-1:pending-registration"))
}

func TestAuthService_ConfirmWrongCodeKeepsPending(t *testing.T) {
	client := &fakeAuthClient{verifyErr: &inErrors.RemoteError{StatusCode: http.StatusBadRequest, Code: inErrors.CodeInvalidUserData}}
	svc, mr, c := setupAuthService(t, client)

	_, err := svc.Register(c, "client-1", request.Register{Name: "Asha", Email: "asha@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Confirm(c, "client-1", request.Confirm{Otp: "000000"})

	var authErr *inErrors.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, inErrors.AuthInvalidUserData, authErr.Kind)
	assert.True(t, mr.Exists("storefront:client-1:pending-registration"))
	assert.False(t, mr.Exists("storefront:client-1:session"))
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, c := setupAuthService(t, &fakeAuthClient{session: asha})

	require.NoError(t, svc.Logout(c, "client-1"), "logout without a session is not an error")

	_, err := svc.Login(c, "client-1", request.Login{Email: "asha@example.com", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(c, "client-1"))

	_, err = svc.RequireSession(c, "client-1")
	assert.ErrorIs(t, err, inErrors.ErrNoSession)
}

func TestAuthService_ResetPassword(t *testing.T) {
	client := &fakeAuthClient{}
	svc, _, c := setupAuthService(t, client)

	err := svc.ResetPassword(c, request.ResetPassword{Email: "asha@example.com"})
	var validation *inErrors.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Empty(t, client.resets)

	err = svc.ResetPassword(c, request.ResetPassword{Email: "asha@example.com", Otp: "123456", Password: "new"})
	require.NoError(t, err)
	assert.Len(t, client.resets, 1)
}

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/token"
)

func newTestContext(out io.Writer) context.Context {
	return zerolog.New(out).WithContext(context.Background())
}

func TestLogging_MasksSecretsAndKeepsBody(t *testing.T) {
	logs := &bytes.Buffer{}
	body := `{"email":"asha@example.com","password":"hunter2","nested":{"otp":"123456"}}`

	var received string
	var requestID string
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = string(raw)
		requestID = log.RequestIDFromContext(r.Context())
		zerolog.Ctx(r.Context()).Info().Msg("handled")
	}))

	r := httptest.NewRequest(http.MethodPost, "/storefront/auth/login", strings.NewReader(body))
	r = r.WithContext(newTestContext(logs))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, body, received, "the handler should read the original body")
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, w.Header().Get(inHttp.KEY_HEADER_REQUEST_ID))
	assert.NotContains(t, logs.String(), "hunter2")
	assert.NotContains(t, logs.String(), "123456")
	assert.Contains(t, logs.String(), "asha@example.com")
}

func TestRecoverPanic(t *testing.T) {
	tests := []struct {
		name  string
		panic interface{}
	}{
		{name: "error value", panic: io.ErrUnexpectedEOF},
		{name: "string value", panic: "boom"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			handler := RecoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(test.panic)
			}))

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = r.WithContext(newTestContext(io.Discard))
			w := httptest.NewRecorder()
			require.NotPanics(t, func() { handler.ServeHTTP(w, r) })

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			body := map[string]interface{}{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, "UNKNOWN_ERROR", body["errorCode"])
			assert.Equal(t, "Something went wrong. Please try again later.", body["message"])
		})
	}
}

func TestClientToken(t *testing.T) {
	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
	issuer := token.NewIssuer("secret")
	signed, clientID, err := issuer.Issue(c)
	require.NoError(t, err)
	foreign, _, err := token.NewIssuer("other").Issue(c)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		expected int
		clientID string
	}{
		{name: "valid token", header: signed, expected: http.StatusOK, clientID: clientID},
		{name: "missing token", header: "", expected: http.StatusUnauthorized},
		{name: "foreign token", header: foreign, expected: http.StatusUnauthorized},
		{name: "garbage token", header: "not-a-jwt", expected: http.StatusUnauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var seen string
			handler := ClientToken(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = token.ClientIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			r := httptest.NewRequest(http.MethodGet, "/storefront/cart", nil)
			r = r.WithContext(c)
			if test.header != "" {
				r.Header.Set(inHttp.KEY_HEADER_CLIENT_TOKEN, test.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, test.expected, w.Code)
			assert.Equal(t, test.clientID, seen)
		})
	}
}

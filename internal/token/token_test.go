package token

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/plantstore/internal/errors"
)

func newTestContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func TestIssuer_RoundTrip(t *testing.T) {
	c := newTestContext()
	issuer := NewIssuer("secret")

	signed, clientID, err := issuer.Issue(c)
	require.NoError(t, err)
	_, err = uuid.Parse(clientID)
	require.NoError(t, err)

	actual, err := issuer.Verify(c, signed)
	require.NoError(t, err)
	assert.Equal(t, clientID, actual)
}

func TestIssuer_Verify(t *testing.T) {
	c := newTestContext()
	issuer := NewIssuer("secret")
	other := NewIssuer("other-secret")
	foreign, _, err := other.Issue(c)
	require.NoError(t, err)

	wrongAudience, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Audience: jwt.ClaimStrings{"someone-else"},
		Subject:  uuid.NewString(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		expected error
	}{
		{name: "empty", token: "", expected: inErrors.ErrEmptyAuth},
		{name: "garbage", token: "not-a-jwt", expected: inErrors.ErrTokenInvalid},
		{name: "signed with another secret", token: foreign, expected: inErrors.ErrTokenInvalid},
		{name: "wrong audience", token: wrongAudience, expected: inErrors.ErrTokenInvalid},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := issuer.Verify(c, test.token)
			assert.ErrorIs(t, err, test.expected)
		})
	}
}

func TestClientIDFromContext(t *testing.T) {
	_, ok := ClientIDFromContext(context.Background())
	assert.False(t, ok)

	clientID, ok := ClientIDFromContext(AttachClientID(context.Background(), "client-1"))
	assert.True(t, ok)
	assert.Equal(t, "client-1", clientID)
}

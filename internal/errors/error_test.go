package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageForCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		fallback string
		expected string
	}{
		{
			name:     "mapped code ignores fallback",
			code:     CodeInvalidCredentials,
			fallback: "bad login",
			expected: "The email or password you entered is incorrect. Please try again.",
		},
		{
			name:     "unmapped code uses backend message",
			code:     "RATE_LIMITED",
			fallback: "slow down",
			expected: "slow down",
		},
		{
			name:     "unmapped code without message uses generic message",
			code:     "",
			fallback: "",
			expected: "Something went wrong. Please try again later.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MessageForCode(tt.code, tt.fallback))
		})
	}
}

func TestReconciliationFailure(t *testing.T) {
	remote := &RemoteError{StatusCode: 500, Message: "database down"}
	err := fmt.Errorf("failed creating order with error=%w", &ReconciliationFailure{PaymentID: "pay_1", Err: remote})

	reconciliation := &ReconciliationFailure{}
	assert.True(t, errors.As(err, &reconciliation))
	assert.Equal(t, "Payment succeeded but failed to record order: database down", reconciliation.Error())

	var asRemote *RemoteError
	assert.True(t, errors.As(err, &asRemote), "remote cause should stay reachable")
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"phoneNumber": "must be 10 digits", "city": "is required"}}
	assert.Equal(t, "validation failed city: is required, phoneNumber: must be 10 digits", err.Error())
}

func TestNewAuthError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedKind    AuthKind
		expectedMessage string
	}{
		{
			name:            "invalid credentials",
			err:             &RemoteError{StatusCode: 401, Code: CodeInvalidCredentials},
			expectedKind:    AuthInvalidCredentials,
			expectedMessage: "The email or password you entered is incorrect. Please try again.",
		},
		{
			name:            "user exists",
			err:             fmt.Errorf("register with error=%w", &RemoteError{StatusCode: 400, Code: CodeUserAlreadyExists}),
			expectedKind:    AuthUserExists,
			expectedMessage: "An account with this email already exists. Please login instead.",
		},
		{
			name:            "unmapped code keeps backend message",
			err:             &RemoteError{StatusCode: 429, Code: "RATE_LIMITED", Message: "Too many attempts"},
			expectedKind:    AuthUnknown,
			expectedMessage: "Too many attempts",
		},
		{
			name:            "non remote error",
			err:             errors.New("boom"),
			expectedKind:    AuthUnknown,
			expectedMessage: "Something went wrong. Please try again later.",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := NewAuthError(test.err)

			assert.Equal(t, test.expectedKind, actual.Kind)
			assert.Equal(t, test.expectedMessage, actual.Message)
			assert.ErrorIs(t, actual, test.err)
		})
	}
}

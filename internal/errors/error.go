package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyAuth          = errors.New("missing authorization")
	ErrEmptySubject       = errors.New("missing subject")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrNoSession          = errors.New("no active session")
	ErrNoPendingSignup    = errors.New("no pending registration")
	ErrEstimationFailed   = errors.New("shipping estimation failed")
	ErrEmptyCheckout      = errors.New("checkout has no items")
	ErrNoCheckout         = errors.New("no checkout in progress")
	ErrInvalidTransition  = errors.New("invalid checkout transition")
	ErrShippingNotQuoted  = errors.New("shipping has not been quoted")
	ErrMalformedPersisted = errors.New("malformed persisted value")
)

// Error codes returned by the plant backend.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeInvalidUserData    = "INVALID_USER_DATA"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUnknownError       = "UNKNOWN_ERROR"
)

var messages = map[string]string{
	CodeInvalidCredentials: "The email or password you entered is incorrect. Please try again.",
	CodeUserAlreadyExists:  "An account with this email already exists. Please login instead.",
	CodeInvalidUserData:    "Please check your information and try again.",
	CodeUserNotFound:       "Account not found. Please check your email or sign up.",
	CodeUnknownError:       "Something went wrong. Please try again later.",
}

// MessageForCode maps a backend error code to a user facing message. An
// unmapped code falls back to the backend message, then to the generic one.
func MessageForCode(code string, fallback string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	if fallback != "" {
		return fallback
	}
	return messages[CodeUnknownError]
}

// ValidationError is raised locally before any network call is made.
// Message, when set, is the summary shown instead of the generic one.
type ValidationError struct {
	Fields  map[string]string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v.Fields[k]))
	}
	return "validation failed " + strings.Join(parts, ", ")
}

// RemoteError is a non-2xx response or a transport failure from the backend.
// StatusCode is zero for transport failures.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (r *RemoteError) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("remote error status=%d code=%s message=%s with error=%s", r.StatusCode, r.Code, r.Message, r.Err.Error())
	}
	return fmt.Sprintf("remote error status=%d code=%s message=%s", r.StatusCode, r.Code, r.Message)
}

func (r *RemoteError) Unwrap() error { return r.Err }

// UserMessage is the message safe to show to the shopper.
func (r *RemoteError) UserMessage() string {
	return MessageForCode(r.Code, r.Message)
}

// PaymentFailure is reported by the payment provider. It is never retried.
type PaymentFailure struct {
	Reason string
}

func (p *PaymentFailure) Error() string {
	return "Payment Failed: " + p.Reason
}

// ReconciliationFailure means the provider captured the payment but the
// backend refused to record the order.
type ReconciliationFailure struct {
	PaymentID string
	Err       error
}

func (r *ReconciliationFailure) Error() string {
	msg := "unknown error"
	if r.Err != nil {
		msg = r.Err.Error()
		var remote *RemoteError
		if errors.As(r.Err, &remote) {
			msg = remote.UserMessage()
		}
	}
	return "Payment succeeded but failed to record order: " + msg
}

func (r *ReconciliationFailure) Unwrap() error { return r.Err }

type AuthKind string

const (
	AuthInvalidCredentials AuthKind = "InvalidCredentials"
	AuthUserNotFound       AuthKind = "UserNotFound"
	AuthUserExists         AuthKind = "UserExists"
	AuthInvalidUserData    AuthKind = "InvalidUserData"
	AuthUnknown            AuthKind = "Unknown"
)

var authKinds = map[string]AuthKind{
	CodeInvalidCredentials: AuthInvalidCredentials,
	CodeUserNotFound:       AuthUserNotFound,
	CodeUserAlreadyExists:  AuthUserExists,
	CodeInvalidUserData:    AuthInvalidUserData,
}

// AuthError is a login, registration or verification failure classified
// from the backend error code.
type AuthError struct {
	Kind    AuthKind
	Message string
	Err     error
}

func NewAuthError(err error) *AuthError {
	authErr := &AuthError{Kind: AuthUnknown, Message: messages[CodeUnknownError], Err: err}
	var remote *RemoteError
	if errors.As(err, &remote) {
		if kind, ok := authKinds[remote.Code]; ok {
			authErr.Kind = kind
		}
		authErr.Message = remote.UserMessage()
	}
	return authErr
}

func (a *AuthError) Error() string {
	return fmt.Sprintf("auth error kind=%s message=%s", a.Kind, a.Message)
}

func (a *AuthError) Unwrap() error { return a.Err }

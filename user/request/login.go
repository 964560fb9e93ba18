package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

// MarshalJSON masks the password. Use Credentials for the wire body.
func (l Login) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L Login
	return json.Marshal(L(l))
}

// Credentials is the unmasked body sent to the backend.
func (l Login) Credentials() map[string]string {
	return map[string]string{"email": l.Email, "password": l.Password}
}

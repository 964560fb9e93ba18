package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Register struct {
	Name     string `validate:"required"       json:"name"`
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", r.Name).Str("email", r.Email).Str("password", "***")
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R Register
	return json.Marshal(R(r))
}

func (r Register) Credentials() map[string]string {
	return map[string]string{"name": r.Name, "email": r.Email, "password": r.Password}
}

type Confirm struct {
	Otp string `validate:"required" json:"otp"`
}

type ResetPassword struct {
	Email    string `validate:"required,email" json:"email"`
	Otp      string `validate:"required"       json:"otp"`
	Password string `validate:"required"       json:"password"`
}

func (r ResetPassword) MarshalJSON() ([]byte, error) {
	r.Otp = "***"
	r.Password = "***"
	type R ResetPassword
	return json.Marshal(R(r))
}

func (r ResetPassword) Credentials() map[string]string {
	return map[string]string{"email": r.Email, "otp": r.Otp, "password": r.Password}
}

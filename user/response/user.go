package response

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Session is the authenticated user. Token is opaque and only ever
// forwarded to the backend.
type Session struct {
	UserID string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

func (s Session) Validate() error {
	if s.Token == "" {
		return errors.New("session without token")
	}
	return nil
}

func (s Session) MarshalZerologObject(e *zerolog.Event) {
	e.Str("userId", s.UserID).Str("email", s.Email)
}

// Profile is the session as shown to views.
type Profile struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (s Session) Profile() Profile {
	return Profile{UserID: s.UserID, Name: s.Name, Email: s.Email}
}

// Pending is a registration waiting for its one-time code.
type Pending struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requestedAt"`
}

func (p Pending) Validate() error {
	if p.Email == "" {
		return errors.New("pending registration without email")
	}
	return nil
}

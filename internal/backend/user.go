package backend

import (
	"context"
	"net/http"

	userRequest "github.com/Alturino/plantstore/user/request"
	userResponse "github.com/Alturino/plantstore/user/response"
)

func (cl *Client) Login(c context.Context, param userRequest.Login) (userResponse.Session, error) {
	session := userResponse.Session{}
	err := cl.do(c, http.MethodPost, "/api/users/login", "", param.Credentials(), &session)
	return session, err
}

func (cl *Client) Register(c context.Context, param userRequest.Register) error {
	return cl.do(c, http.MethodPost, "/api/users/register", "", param.Credentials(), nil)
}

func (cl *Client) SendOtp(c context.Context, email string) error {
	return cl.do(c, http.MethodPost, "/api/users/otp/send", "", map[string]string{"email": email}, nil)
}

func (cl *Client) VerifyOtp(c context.Context, email, otp string) (userResponse.Session, error) {
	session := userResponse.Session{}
	body := map[string]string{"email": email, "otp": otp}
	err := cl.do(c, http.MethodPost, "/api/users/otp/verify", "", body, &session)
	return session, err
}

func (cl *Client) ResetPassword(c context.Context, param userRequest.ResetPassword) error {
	return cl.do(c, http.MethodPost, "/api/users/reset-password", "", param.Credentials(), nil)
}

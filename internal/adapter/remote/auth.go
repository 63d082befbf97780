package remote

import (
	"context"
	"net/http"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

// AuthResult is the response of sign-in and sign-up.
type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUpRequest holds the fields of a new account.
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a session token.
func (c *Client) SignIn(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	if err := c.sendJSON(ctx, http.MethodPost, "/api/auth/signin", signInRequest{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp registers a new account and returns its session token.
func (c *Client) SignUp(ctx context.Context, in SignUpRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.sendJSON(ctx, http.MethodPost, "/api/auth/signup", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

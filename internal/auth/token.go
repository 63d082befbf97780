// Package auth inspects the session tokens issued by the backend. The desk
// never holds the signing key, so signatures are not verified here; the
// backend remains the only authority and answers 401 for a bad token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

// ErrExpired is returned by Inspect for a token past its exp claim.
var ErrExpired = errors.New("session token expired")

// sessionClaims are the claims the backend puts into its tokens.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Claims is what the desk reads from a session token.
type Claims struct {
	Subject   string
	Username  string
	Email     string
	Name      string
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry at or before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// User builds a user record from the claims, for sessions whose cached
// user info was lost.
func (c Claims) User() *domain.User {
	if c.Subject == "" && c.Username == "" {
		return nil
	}
	return &domain.User{
		ID:       c.Subject,
		Username: c.Username,
		Email:    c.Email,
		Name:     c.Name,
	}
}

// Inspect decodes token without verifying its signature and checks its
// expiry against now. Tokens that are not JWTs return an error wrapping
// jwt.ErrTokenMalformed.
func Inspect(token string, now time.Time) (Claims, error) {
	if token == "" {
		return Claims{}, fmt.Errorf("auth: %w: empty token", jwt.ErrTokenMalformed)
	}

	var sc sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &sc); err != nil {
		return Claims{}, fmt.Errorf("auth: parse token: %w", err)
	}

	c := Claims{
		Subject:  sc.Subject,
		Username: sc.Username,
		Email:    sc.Email,
		Name:     sc.Name,
	}
	if c.Subject == "" {
		c.Subject = sc.UserID
	}
	if sc.ExpiresAt != nil {
		c.ExpiresAt = sc.ExpiresAt.Time
	}
	if c.Expired(now) {
		return c, ErrExpired
	}
	return c, nil
}

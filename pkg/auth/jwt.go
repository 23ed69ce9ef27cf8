// Package auth is the identity collaborator boundary: it resolves bearer
// tokens to usernames and asserts that a token authenticates a specific
// user.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cpnotes/pkg/errs"
)

var secret []byte

// Init sets the HS256 signing secret used for token verification.
func Init(s string) {
	secret = []byte(s)
}

// Sign issues a token for username. Used by tests and the dev login
// endpoint; production deployments are expected to front this service with
// an external identity provider issuing compatible tokens.
func Sign(username string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify resolves a bearer token to the authenticated username.
func Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errs.Wrap(errs.ErrNotLoggedIn, errors.New("missing token"))
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", errs.Wrap(errs.ErrNotLoggedIn, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errs.Wrap(errs.ErrNotLoggedIn, errors.New("token invalid"))
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", errs.Wrap(errs.ErrNotLoggedIn, errors.New("token has no username claim"))
	}
	return username, nil
}

// VerifyUser asserts that tokenString authenticates exactly username.
func VerifyUser(username, tokenString string) error {
	authenticated, err := Verify(tokenString)
	if err != nil {
		return err
	}
	if authenticated != username {
		return errs.ErrNotLoggedIn
	}
	return nil
}

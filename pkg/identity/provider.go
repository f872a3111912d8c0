// Package identity signs admins in and out against an external identity provider.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned by SignIn when the provider rejects the
// email and password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Principal struct {
	UID         string
	Email       string
	DisplayName string
	IDToken     string
}

type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Principal, error)
	// SignOut ends every provider session of uid.
	SignOut(ctx context.Context, uid string) error
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseProvider verifies passwords through the Identity Toolkit REST API
// and revokes sessions with the Admin SDK.
type FirebaseProvider struct {
	toolkit *identitytoolkit.Service
	auth    *auth.Client
}

func NewFirebaseProvider(ctx context.Context, app *firebase.App, webAPIKey string) (*FirebaseProvider, error) {
	if webAPIKey == "" {
		return nil, errors.New("firebase web API key is required for password sign-in")
	}

	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	return &FirebaseProvider{
		toolkit: toolkit,
		auth:    authClient,
	}, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Principal, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}

	resp, err := p.toolkit.Relyingparty.VerifyPassword(req).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return &Principal{
		UID:         resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		IDToken:     resp.IdToken,
	}, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	if err := p.auth.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

// Package account creates user accounts for completed registrations and
// verifies the tokens those accounts authenticate with.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"collabhub/config"
	"collabhub/database/docstore"
	"collabhub/models"
	"collabhub/utils"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned by VerifyToken for any unusable token.
var ErrInvalidToken = errors.New("account: invalid token")

const (
	msgEmailTaken   = "An account with this email already exists"
	msgCreateFailed = "Registration failed, please try again"
	tokenLifetime   = 24 * time.Hour
)

// Provider is implemented by every account backend.
type Provider interface {
	CreateAccount(ctx context.Context, record models.RegistrationRecord) (*models.Account, error)
	// VerifyToken returns the account id the token was issued for.
	VerifyToken(ctx context.Context, token string) (string, error)
}

// New returns the provider selected by AUTH_PROVIDER.
func New(ctx context.Context, cfg *config.Config, app *firebase.App, store docstore.Store, logger *zap.Logger) (Provider, error) {
	switch strings.ToLower(cfg.AuthProvider) {
	case "firebase":
		if app == nil {
			return nil, fmt.Errorf("account: firebase provider needs a firebase app")
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("account: failed to init firebase auth: %w", err)
		}
		return NewFirebaseAccountService(client, store, logger), nil
	case "local":
		issuer := utils.NewTokenIssuer(cfg.JWTSecret, tokenLifetime)
		return NewLocalAccountService(store, issuer, logger), nil
	}
	return nil, fmt.Errorf("account: unknown provider %q", cfg.AuthProvider)
}

func rejection(message string, err error) error {
	return &models.AccountError{Message: message, Err: err}
}

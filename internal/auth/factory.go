package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stacklok/donation-coordinator/internal/config"
)

// NewAuthMiddleware creates authentication middleware based on config.
// Public paths (DefaultPublicPaths plus any configured) bypass it.
func NewAuthMiddleware(cfg *config.AuthConfig) (func(http.Handler) http.Handler, error) {
	if cfg == nil {
		slog.Info("auth: anonymous mode (no auth config)")
		return headerMiddleware, nil
	}

	publicPaths := append(append([]string{}, DefaultPublicPaths...), cfg.PublicPaths...)

	switch cfg.Mode {
	case config.AuthModeAnonymous, "":
		slog.Info("auth: anonymous mode")
		return headerMiddleware, nil
	case config.AuthModeJWT:
		m, err := createJWTMiddleware(cfg.JWT)
		if err != nil {
			return nil, err
		}
		slog.Info("auth: jwt mode", "issuer", cfg.JWT.Issuer, "audience", cfg.JWT.Audience)
		return WrapWithPublicPaths(m.Middleware, publicPaths), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}

func createJWTMiddleware(cfg *config.JWTConfig) (*bearerMiddleware, error) {
	if cfg == nil {
		return nil, errors.New("jwt configuration is required for jwt mode")
	}
	secret, err := cfg.GetSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to read jwt secret: %w", err)
	}
	validator, err := NewHMACValidator(secret, cfg.Issuer, cfg.Audience)
	if err != nil {
		return nil, err
	}
	return newBearerMiddleware(validator, cfg.Realm)
}

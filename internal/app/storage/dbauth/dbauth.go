// Package dbauth resolves database credentials, including short-lived tokens
// for token-based authentication methods such as AWS RDS IAM.
package dbauth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stacklok/donation-coordinator/internal/config"
)

// BeforeConnectFunc sets credentials on a connection about to be opened
type BeforeConnectFunc func(ctx context.Context, connConfig *pgx.ConnConfig) error

// ResolveAuthToken returns a dynamic authentication token for user, or an
// empty string when dynamic authentication is not configured.
func ResolveAuthToken(ctx context.Context, cfg *config.DatabaseConfig, user string) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("database configuration is required")
	}
	if cfg.DynamicAuth == nil {
		return "", nil
	}
	if cfg.DynamicAuth.AWSRDSIAM != nil {
		return newAWSToken(ctx, cfg, user)
	}
	return "", fmt.Errorf("dynamic auth is configured but no supported auth method (e.g., awsRdsIam) is specified")
}

// NewDynamicAuth returns a hook that fetches a fresh token for every new connection
func NewDynamicAuth(ctx context.Context, cfg *config.DatabaseConfig, user string) (BeforeConnectFunc, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration is required")
	}
	if cfg.DynamicAuth == nil {
		return nil, fmt.Errorf("dynamic authentication is not configured")
	}
	if cfg.DynamicAuth.AWSRDSIAM != nil {
		return awsBeforeConnect(ctx, cfg, user)
	}
	return nil, fmt.Errorf("dynamic auth is configured but no supported auth method (e.g., awsRdsIam) is specified")
}

// MigrationConnectionString builds the connection string of the migration user.
// A dynamic token, when configured, is embedded as the password because
// golang-migrate opens its own connection and cannot run a connect hook.
func MigrationConnectionString(ctx context.Context, cfg *config.DatabaseConfig) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("database configuration is required")
	}

	user := cfg.GetMigrationUser()
	token, err := ResolveAuthToken(ctx, cfg, user)
	if err != nil {
		return "", fmt.Errorf("failed to resolve auth token for migration user: %w", err)
	}
	if token != "" {
		return cfg.BuildConnectionString(user, token), nil
	}

	password, err := cfg.GetMigrationPassword()
	if err != nil {
		return "", err
	}
	return cfg.BuildConnectionString(user, password), nil
}

package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stacklok/donation-coordinator/internal/auth"
	"github.com/stacklok/donation-coordinator/internal/config"
	"github.com/stacklok/donation-coordinator/internal/donation"
)

const defaultTokenTTL = time.Hour

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an actor",
		Long: `Issue an HS256 bearer token for the given actor, signed with the JWT secret
from --config. Useful for operators and integration tests when auth.mode is jwt.`,
		Args: cobra.NoArgs,
		RunE: runToken,
	}
	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	cmd.Flags().String("role", "", "Actor role: admin, donor or home")
	cmd.Flags().String("id", "", "Actor ID (UUID)")
	cmd.Flags().Duration("ttl", defaultTokenTTL, "Token lifetime")
	for _, name := range []string{"config", "role", "id"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	role, err := cmd.Flags().GetString("role")
	if err != nil {
		return fmt.Errorf("failed to get role flag: %w", err)
	}
	rawID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	ttl, err := cmd.Flags().GetDuration("ttl")
	if err != nil {
		return fmt.Errorf("failed to get ttl flag: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid actor id: %w", err)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.GetAuthMode() != config.AuthModeJWT || cfg.Auth.JWT == nil {
		return fmt.Errorf("tokens require auth.mode %q with a jwt section", config.AuthModeJWT)
	}
	secret, err := cfg.Auth.JWT.GetSecret()
	if err != nil {
		return err
	}

	token, err := auth.IssueToken(secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.Audience,
		donation.Actor{Role: donation.Role(role), ID: id}, ttl, time.Now())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stacklok/donation-coordinator/internal/app"
	"github.com/stacklok/donation-coordinator/internal/config"
)

const defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the donation API server",
		Long: `Start the donation API server.

The server requires a configuration file (--config) that specifies:
- The scoring service used by matching sessions
- The storage backend (memory or database)
- Authentication, geocoding, event publishing and telemetry settings

See examples/ directory for sample configurations.`,
		RunE: runServe,
	}

	cmd.Flags().String("address", "", "Address to listen on (overrides server.address)")
	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	cmd.Flags().Duration("shutdown-timeout", defaultGracefulTimeout, "Time allowed for in-flight requests on shutdown")
	if err := cmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
	return cmd
}

// serveOptions turns the serve flags into app options
func serveOptions(cmd *cobra.Command) ([]app.AppOptions, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Info("Loaded configuration", "path", configPath, "storage", cfg.GetStorageType(), "auth", cfg.GetAuthMode())

	opts := []app.AppOptions{app.WithConfig(cfg)}

	address, err := cmd.Flags().GetString("address")
	if err != nil {
		return nil, fmt.Errorf("failed to get address flag: %w", err)
	}
	if address != "" {
		opts = append(opts, app.WithAddress(address))
	}
	return opts, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := serveOptions(cmd)
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("shutdown-timeout")
	if err != nil {
		return fmt.Errorf("failed to get shutdown-timeout flag: %w", err)
	}

	donationApp, err := app.NewDonationApp(context.WithoutCancel(ctx), opts...)
	if err != nil {
		return fmt.Errorf("failed to create donation app: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- donationApp.Start()
	}()

	select {
	case err := <-errCh:
		// The server stopped on its own; still release storage and telemetry
		_ = donationApp.Stop(timeout)
		return err
	case <-ctx.Done():
	}

	if err := donationApp.Stop(timeout); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}
	return <-errCh
}

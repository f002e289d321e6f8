package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stacklok/donation-coordinator/database"
)

func newPrimeDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prime-db [username]",
		Short: "Prime the database with role and user",
		Long: `Prime the database by creating the required role and application user.

This command:
- Creates the role 'donation_coordinator' if it doesn't exist
- Creates the user given as positional argument, or resets its password
- Grants the role to the user, along with row access to the schema
- Reads the password from STDIN

The command connects as the migration user from --config.`,
		Args: cobra.ExactArgs(1),
		RunE: runPrimeDB,
	}

	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required unless --dry-run)")
	cmd.Flags().Bool("dry-run", false, "Print the SQL that would be executed to standard output")
	return cmd
}

func runPrimeDB(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return err
	}

	primeSQL, err := database.RenderPrimeSQL(args[0], password)
	if err != nil {
		return err
	}

	if dryRun {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), primeSQL)
		return err
	}

	_, connString, err := migrationTarget(cmd)
	if err != nil {
		return err
	}
	if err := executePrimeSQL(cmd.Context(), connString, primeSQL); err != nil {
		return fmt.Errorf("failed to execute prime SQL: %w", err)
	}

	slog.Info("Database primed successfully", "role", database.AppRole, "user", args[0])
	return nil
}

// readPassword reads the password without echo from a terminal, or in full from in
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		slog.Info("Reading password from terminal...")
		passwordBytes, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(passwordBytes), nil
	}

	passwordBytes, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytes.TrimSpace(passwordBytes)), nil
}

func executePrimeSQL(ctx context.Context, connString, primeSQL string) error {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(ctx); closeErr != nil {
			slog.Error("Error closing database connection", "error", closeErr)
		}
	}()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("Failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, primeSQL); err != nil {
		return fmt.Errorf("failed to prime database: %w", err)
	}

	return tx.Commit(ctx)
}

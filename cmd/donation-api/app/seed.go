package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/donation-coordinator/internal/app/storage"
	"github.com/stacklok/donation-coordinator/internal/config"
	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/geo"
	"github.com/stacklok/donation-coordinator/internal/store"
)

// seedFile lists accounts to register before the server takes traffic
type seedFile struct {
	Donors []seedDonor `yaml:"donors"`
	Homes  []seedHome  `yaml:"homes"`
}

type seedDonor struct {
	ID          uuid.UUID        `yaml:"id"`
	FullName    string           `yaml:"fullName"`
	Email       string           `yaml:"email"`
	PhoneNumber string           `yaml:"phoneNumber"`
	Address     string           `yaml:"address"`
	Location    *geo.Coordinates `yaml:"location"`
	Status      string           `yaml:"status"`
}

type seedHome struct {
	ID            uuid.UUID        `yaml:"id"`
	Name          string           `yaml:"name"`
	Email         string           `yaml:"email"`
	PhoneNumber   string           `yaml:"phoneNumber"`
	Address       string           `yaml:"address"`
	ContactPerson string           `yaml:"contactPerson"`
	Capacity      int              `yaml:"capacity"`
	SpecialNeeds  string           `yaml:"specialNeeds"`
	Location      *geo.Coordinates `yaml:"location"`
	Status        string           `yaml:"status"`
}

type seedResult struct {
	Created int
	Skipped int
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Register donors and homes from a YAML file",
		Long: `Register the donors and homes listed in a YAML file in the configured database.

Accounts that already exist (same ID or email) are skipped, so the command can
be re-run safely. Accounts without a status are registered as pending.`,
		Args: cobra.ExactArgs(1),
		RunE: runSeed,
	}
	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := cmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.GetStorageType() != config.StorageTypeDatabase {
		return fmt.Errorf("seeding requires storage.type %q", config.StorageTypeDatabase)
	}

	seed, err := loadSeedFile(args[0])
	if err != nil {
		return err
	}

	factory, err := storage.NewStorageFactory(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage factory: %w", err)
	}
	defer factory.Cleanup()

	st, err := factory.CreateStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	result, err := applySeed(ctx, st, seed, time.Now().UTC())
	if err != nil {
		return err
	}
	slog.Info("Seed applied", "created", result.Created, "skipped", result.Skipped)
	return nil
}

func loadSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

// applySeed creates every account in seed, skipping those that already exist
func applySeed(ctx context.Context, st store.Store, seed *seedFile, now time.Time) (seedResult, error) {
	var result seedResult

	record := func(kind, name string, err error) error {
		switch {
		case err == nil:
			result.Created++
			return nil
		case errors.Is(err, store.ErrAlreadyExists):
			slog.Debug("Account already registered", "kind", kind, "name", name)
			result.Skipped++
			return nil
		default:
			return fmt.Errorf("failed to create %s %q: %w", kind, name, err)
		}
	}

	for i, d := range seed.Donors {
		donor, err := d.toDonor(now)
		if err != nil {
			return result, fmt.Errorf("donor %d: %w", i, err)
		}
		if err := record("donor", donor.FullName, st.CreateDonor(ctx, donor)); err != nil {
			return result, err
		}
	}
	for i, h := range seed.Homes {
		home, err := h.toHome(now)
		if err != nil {
			return result, fmt.Errorf("home %d: %w", i, err)
		}
		if err := record("home", home.Name, st.CreateHome(ctx, home)); err != nil {
			return result, err
		}
	}
	return result, nil
}

func accountStatus(s string) (donation.AccountStatus, error) {
	switch status := donation.AccountStatus(s); status {
	case "":
		return donation.AccountPending, nil
	case donation.AccountPending, donation.AccountApproved, donation.AccountRejected:
		return status, nil
	default:
		return "", fmt.Errorf("unknown account status %q", s)
	}
}

func checkLocation(c *geo.Coordinates) error {
	if c == nil {
		return nil
	}
	return c.Validate()
}

func (d seedDonor) toDonor(now time.Time) (*donation.Donor, error) {
	if d.FullName == "" || d.Email == "" {
		return nil, fmt.Errorf("fullName and email are required")
	}
	status, err := accountStatus(d.Status)
	if err != nil {
		return nil, err
	}
	if err := checkLocation(d.Location); err != nil {
		return nil, err
	}
	id := d.ID
	if id == uuid.Nil {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte("donor:"+d.Email))
	}
	return &donation.Donor{
		ID:          id,
		FullName:    d.FullName,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Address:     d.Address,
		Location:    d.Location,
		Status:      status,
		CreatedAt:   now,
	}, nil
}

func (h seedHome) toHome(now time.Time) (*donation.Home, error) {
	if h.Name == "" || h.Email == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if h.Capacity < 0 {
		return nil, fmt.Errorf("capacity cannot be negative")
	}
	status, err := accountStatus(h.Status)
	if err != nil {
		return nil, err
	}
	if err := checkLocation(h.Location); err != nil {
		return nil, err
	}
	id := h.ID
	if id == uuid.Nil {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte("home:"+h.Email))
	}
	return &donation.Home{
		ID:            id,
		Name:          h.Name,
		Email:         h.Email,
		PhoneNumber:   h.PhoneNumber,
		Address:       h.Address,
		ContactPerson: h.ContactPerson,
		Capacity:      h.Capacity,
		SpecialNeeds:  h.SpecialNeeds,
		Location:      h.Location,
		Status:        status,
		CreatedAt:     now,
	}, nil
}

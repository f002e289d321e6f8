// Package postgres provides a PostgreSQL-backed store.Store built on pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/geo"
	"github.com/stacklok/donation-coordinator/internal/notify"
	"github.com/stacklok/donation-coordinator/internal/otel"
	"github.com/stacklok/donation-coordinator/internal/store"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
)

const (
	donorColumns        = `id, full_name, email, phone_number, address, latitude, longitude, status, created_at`
	homeColumns         = `id, name, email, phone_number, address, contact_person, capacity, special_needs, latitude, longitude, status, created_at`
	notificationColumns = `id, recipient_id, recipient_kind, donation_id, type, message, details, read, created_at`
	donationColumns     = `id, donor_id, category, food_type, quantity, unit, description, delivery_method, ` +
		`preferred_delivery_at, expires_at, status, matched_home_id, rejection_reason, created_at, updated_at, version`
)

type options struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

// Option is a functional option for configuring the Postgres store
type Option func(*options) error

// WithConnectionPool sets the pgx pool. The store closes it on Close.
func WithConnectionPool(pool *pgxpool.Pool) Option {
	return func(o *options) error {
		if pool == nil {
			return fmt.Errorf("pgx pool is required")
		}
		o.pool = pool
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer.
// If not set, tracing will be disabled (no-op).
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = tracer
		return nil
	}
}

// Store implements store.Store on PostgreSQL
type Store struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

var _ store.Store = (*Store)(nil)

// New creates a Postgres store. WithConnectionPool is required.
func New(opts ...Option) (*Store, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &Store{pool: o.pool, tracer: o.tracer}, nil
}

// Ping implements store.Store
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close releases the pool
func (s *Store) Close() {
	s.pool.Close()
}

// CreateDonor implements store.Store
func (s *Store) CreateDonor(ctx context.Context, d *donation.Donor) (err error) {
	ctx, span := s.startSpan(ctx, "postgres.CreateDonor")
	defer func() { endSpan(span, err) }()

	lat, lon := splitLocation(d.Location)
	_, err = s.pool.Exec(ctx,
		`INSERT INTO donor (`+donorColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.FullName, d.Email, d.PhoneNumber, d.Address, lat, lon, d.Status, d.CreatedAt)
	return mapWriteError(err, "donor", d.ID)
}

// GetDonor implements store.Store
func (s *Store) GetDonor(ctx context.Context, id uuid.UUID) (_ *donation.Donor, err error) {
	ctx, span := s.startSpan(ctx, "postgres.GetDonor")
	defer func() { endSpan(span, err) }()

	row := s.pool.QueryRow(ctx, `SELECT `+donorColumns+` FROM donor WHERE id = $1`, id)
	d, err := scanDonor(row)
	if err != nil {
		return nil, mapReadError(err, "donor", id)
	}
	return d, nil
}

// UpdateDonor implements store.Store
func (s *Store) UpdateDonor(ctx context.Context, d *donation.Donor) (err error) {
	ctx, span := s.startSpan(ctx, "postgres.UpdateDonor")
	defer func() { endSpan(span, err) }()

	lat, lon := splitLocation(d.Location)
	tag, err := s.pool.Exec(ctx,
		`UPDATE donor SET full_name = $2, email = $3, phone_number = $4, address = $5,
		        latitude = $6, longitude = $7, status = $8
		  WHERE id = $1`,
		d.ID, d.FullName, d.Email, d.PhoneNumber, d.Address, lat, lon, d.Status)
	if err != nil {
		return mapWriteError(err, "donor", d.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: donor %s", store.ErrNotFound, d.ID)
	}
	return nil
}

// ListDonors implements store.Store
func (s *Store) ListDonors(ctx context.Context, status donation.AccountStatus) (_ []*donation.Donor, err error) {
	ctx, span := s.startSpan(ctx, "postgres.ListDonors")
	defer func() { endSpan(span, err) }()

	rows, err := s.pool.Query(ctx,
		`SELECT `+donorColumns+` FROM donor WHERE ($1 = '' OR status = $1) ORDER BY full_name, id`,
		string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list donors: %w", err)
	}
	return collect(rows, scanDonor)
}

// CreateHome implements store.Store
func (s *Store) CreateHome(ctx context.Context, h *donation.Home) (err error) {
	ctx, span := s.startSpan(ctx, "postgres.CreateHome")
	defer func() { endSpan(span, err) }()

	lat, lon := splitLocation(h.Location)
	_, err = s.pool.Exec(ctx,
		`INSERT INTO home (`+homeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		h.ID, h.Name, h.Email, h.PhoneNumber, h.Address, h.ContactPerson, h.Capacity, h.SpecialNeeds,
		lat, lon, h.Status, h.CreatedAt)
	return mapWriteError(err, "home", h.ID)
}

// GetHome implements store.Store
func (s *Store) GetHome(ctx context.Context, id uuid.UUID) (_ *donation.Home, err error) {
	ctx, span := s.startSpan(ctx, "postgres.GetHome")
	defer func() { endSpan(span, err) }()

	h, err := scanHome(s.pool.QueryRow(ctx, `SELECT `+homeColumns+` FROM home WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, "home", id)
	}
	return h, nil
}

// UpdateHome implements store.Store
func (s *Store) UpdateHome(ctx context.Context, h *donation.Home) (err error) {
	ctx, span := s.startSpan(ctx, "postgres.UpdateHome")
	defer func() { endSpan(span, err) }()

	lat, lon := splitLocation(h.Location)
	tag, err := s.pool.Exec(ctx,
		`UPDATE home SET name = $2, email = $3, phone_number = $4, address = $5, contact_person = $6,
		        capacity = $7, special_needs = $8, latitude = $9, longitude = $10, status = $11
		  WHERE id = $1`,
		h.ID, h.Name, h.Email, h.PhoneNumber, h.Address, h.ContactPerson, h.Capacity, h.SpecialNeeds,
		lat, lon, h.Status)
	if err != nil {
		return mapWriteError(err, "home", h.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: home %s", store.ErrNotFound, h.ID)
	}
	return nil
}

// ListHomes implements store.Store
func (s *Store) ListHomes(ctx context.Context, status donation.AccountStatus) (_ []*donation.Home, err error) {
	ctx, span := s.startSpan(ctx, "postgres.ListHomes")
	defer func() { endSpan(span, err) }()

	rows, err := s.pool.Query(ctx,
		`SELECT `+homeColumns+` FROM home WHERE ($1 = '' OR status = $1) ORDER BY name, id`,
		string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list homes: %w", err)
	}
	return collect(rows, scanHome)
}

// CreateDonation implements store.Store
func (s *Store) CreateDonation(ctx context.Context, d *donation.Donation) (err error) {
	ctx, span := s.startSpan(ctx, "postgres.CreateDonation")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(otel.AttrDonationID.String(d.ID.String()))

	_, err = s.pool.Exec(ctx,
		`INSERT INTO donation (`+donationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		d.ID, d.DonorID, d.Category, d.FoodType, d.Quantity, d.Unit, d.Description, d.DeliveryMethod,
		d.PreferredDeliveryAt, d.ExpiresAt, d.Status, d.MatchedHomeID, d.RejectionReason,
		d.CreatedAt, d.UpdatedAt, d.Version)
	return mapWriteError(err, "donation", d.ID)
}

// GetDonation implements store.Store
func (s *Store) GetDonation(ctx context.Context, id uuid.UUID) (_ *donation.Donation, err error) {
	ctx, span := s.startSpan(ctx, "postgres.GetDonation")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(otel.AttrDonationID.String(id.String()))

	d, err := scanDonation(s.pool.QueryRow(ctx, `SELECT `+donationColumns+` FROM donation WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, "donation", id)
	}
	return d, nil
}

// UpdateDonation implements store.Store. The write is a compare-and-swap on
// version inside a serializable transaction; a serialization failure is
// reported as a conflict like a stale version.
func (s *Store) UpdateDonation(ctx context.Context, d *donation.Donation) (err error) {
	ctx, span := s.startSpan(ctx, "postgres.UpdateDonation")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(
		otel.AttrDonationID.String(d.ID.String()),
		otel.AttrDonationStatus.String(string(d.Status)),
	)

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		err := tx.Rollback(ctx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "Failed to rollback transaction", "error", err)
		}
	}()

	var newVersion int64
	err = tx.QueryRow(ctx,
		`UPDATE donation
		    SET status = $3, matched_home_id = $4, rejection_reason = $5, updated_at = $6,
		        description = $7, preferred_delivery_at = $8, version = version + 1
		  WHERE id = $1 AND version = $2
		  RETURNING version`,
		d.ID, d.Version, d.Status, d.MatchedHomeID, d.RejectionReason, d.UpdatedAt,
		d.Description, d.PreferredDeliveryAt,
	).Scan(&newVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM donation WHERE id = $1)`, d.ID).Scan(&exists); err != nil {
			return mapWriteError(err, "donation", d.ID)
		}
		if !exists {
			return fmt.Errorf("%w: donation %s", store.ErrNotFound, d.ID)
		}
		return fmt.Errorf("%w: donation %s is no longer at version %d", store.ErrConflict, d.ID, d.Version)
	}
	if err != nil {
		return mapWriteError(err, "donation", d.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapWriteError(err, "donation", d.ID)
	}

	d.Version = newVersion
	return nil
}

// ListDonations implements store.Store
func (s *Store) ListDonations(ctx context.Context, filter store.DonationFilter) (_ []*donation.Donation, err error) {
	ctx, span := s.startSpan(ctx, "postgres.ListDonations")
	defer func() { endSpan(span, err) }()

	var (
		where []string
		args  []any
	)
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.DonorID != nil {
		args = append(args, *filter.DonorID)
		where = append(where, fmt.Sprintf("donor_id = $%d", len(args)))
	}
	if filter.HomeID != nil {
		args = append(args, *filter.HomeID)
		where = append(where, fmt.Sprintf("matched_home_id = $%d", len(args)))
	}

	query := `SELECT ` + donationColumns + ` FROM donation`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	list, err := collect(rows, scanDonation)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(list)))
	return list, nil
}

// CountDonations implements store.Store
func (s *Store) CountDonations(ctx context.Context) (_ map[donation.Status]int, err error) {
	ctx, span := s.startSpan(ctx, "postgres.CountDonations")
	defer func() { endSpan(span, err) }()

	rows, err := s.pool.Query(ctx, `SELECT status, count(*) FROM donation GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count donations: %w", err)
	}
	defer rows.Close()

	counts := make(map[donation.Status]int)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan donation count: %w", err)
		}
		counts[donation.Status(status)] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count donations: %w", err)
	}
	return counts, nil
}

// CreateNotification implements store.Store
func (s *Store) CreateNotification(ctx context.Context, n *notify.Notification) (err error) {
	ctx, span := s.startSpan(ctx, "postgres.CreateNotification")
	defer func() { endSpan(span, err) }()

	details := n.Details
	if details == nil {
		details = map[string]any{}
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO notification (`+notificationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.RecipientID, n.RecipientKind, n.DonationID, n.Type, n.Message, details, n.Read, n.CreatedAt)
	return mapWriteError(err, "notification", n.ID)
}

// ListNotifications implements store.Store
func (s *Store) ListNotifications(ctx context.Context, recipientID uuid.UUID) (_ []*notify.Notification, err error) {
	ctx, span := s.startSpan(ctx, "postgres.ListNotifications")
	defer func() { endSpan(span, err) }()

	rows, err := s.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notification WHERE recipient_id = $1 ORDER BY created_at DESC, id`,
		recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

// SetNotificationRead implements store.Store
func (s *Store) SetNotificationRead(
	ctx context.Context,
	id, recipientID uuid.UUID,
	read bool,
) (_ *notify.Notification, err error) {
	ctx, span := s.startSpan(ctx, "postgres.SetNotificationRead")
	defer func() { endSpan(span, err) }()

	n, err := scanNotification(s.pool.QueryRow(ctx,
		`UPDATE notification SET read = $3 WHERE id = $1 AND recipient_id = $2 RETURNING `+notificationColumns,
		id, recipientID, read))
	if err != nil {
		return nil, mapReadError(err, "notification", id)
	}
	return n, nil
}

func mapReadError(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", store.ErrNotFound, kind, id)
	}
	return fmt.Errorf("failed to read %s %s: %w", kind, id, err)
}

func mapWriteError(err error, kind string, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s %s", store.ErrAlreadyExists, kind, id)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s %s references a missing entity", store.ErrNotFound, kind, id)
		case pgSerializationFailure:
			return fmt.Errorf("%w: %s %s", store.ErrConflict, kind, id)
		}
	}
	return fmt.Errorf("failed to write %s %s: %w", kind, id, err)
}

func splitLocation(c *geo.Coordinates) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lon := c.Latitude, c.Longitude
	return &lat, &lon
}

func joinLocation(lat, lon *float64) *geo.Coordinates {
	if lat == nil || lon == nil {
		return nil
	}
	return &geo.Coordinates{Latitude: *lat, Longitude: *lon}
}

package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stacklok/donation-coordinator/internal/donation"
	"github.com/stacklok/donation-coordinator/internal/notify"
)

func scanDonor(row pgx.Row) (*donation.Donor, error) {
	var (
		d        donation.Donor
		lat, lon *float64
	)
	if err := row.Scan(&d.ID, &d.FullName, &d.Email, &d.PhoneNumber, &d.Address, &lat, &lon, &d.Status, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Location = joinLocation(lat, lon)
	return &d, nil
}

func scanHome(row pgx.Row) (*donation.Home, error) {
	var (
		h        donation.Home
		lat, lon *float64
	)
	if err := row.Scan(&h.ID, &h.Name, &h.Email, &h.PhoneNumber, &h.Address, &h.ContactPerson,
		&h.Capacity, &h.SpecialNeeds, &lat, &lon, &h.Status, &h.CreatedAt); err != nil {
		return nil, err
	}
	h.Location = joinLocation(lat, lon)
	return &h, nil
}

func scanDonation(row pgx.Row) (*donation.Donation, error) {
	var d donation.Donation
	if err := row.Scan(&d.ID, &d.DonorID, &d.Category, &d.FoodType, &d.Quantity, &d.Unit, &d.Description,
		&d.DeliveryMethod, &d.PreferredDeliveryAt, &d.ExpiresAt, &d.Status, &d.MatchedHomeID,
		&d.RejectionReason, &d.CreatedAt, &d.UpdatedAt, &d.Version); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanNotification(row pgx.Row) (*notify.Notification, error) {
	var n notify.Notification
	if err := row.Scan(&n.ID, &n.RecipientID, &n.RecipientKind, &n.DonationID, &n.Type, &n.Message,
		&n.Details, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// collect drains rows through scan and closes them
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()

	var out []*T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}

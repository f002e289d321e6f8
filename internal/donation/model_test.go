package donation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	donor := uuid.New()
	delivery := testNow.Add(48 * time.Hour)
	expiry := testNow.Add(72 * time.Hour)

	food := Draft{
		Category:            CategoryFood,
		FoodType:            " rice ",
		Quantity:            36,
		Unit:                "kg",
		DeliveryMethod:      DeliveryByDonor,
		PreferredDeliveryAt: delivery,
		ExpiresAt:           &expiry,
	}

	t.Run("food starts pending", func(t *testing.T) {
		t.Parallel()
		d, err := New(donor, food, testNow)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, d.Status)
		assert.Equal(t, "rice", d.FoodType)
		assert.Equal(t, "36 kg of rice", d.Label())
		assert.NotEqual(t, uuid.Nil, d.ID)
		assert.Equal(t, testNow, d.CreatedAt)
		assert.Zero(t, d.Version)
		assert.NoError(t, d.CheckInvariants())
	})

	t.Run("non-food starts in review", func(t *testing.T) {
		t.Parallel()
		d, err := New(donor, Draft{
			Category:            CategoryBooks,
			Description:         "school books",
			DeliveryMethod:      DeliveryHomePickup,
			PreferredDeliveryAt: delivery,
		}, testNow)
		require.NoError(t, err)
		assert.Equal(t, StatusPendingAdminReview, d.Status)
		assert.Equal(t, "books", d.Label())
	})

	invalid := map[string]func(d *Draft){
		"unknown category":   func(d *Draft) { d.Category = "toys" },
		"no delivery method": func(d *Draft) { d.DeliveryMethod = "" },
		"no delivery time":   func(d *Draft) { d.PreferredDeliveryAt = time.Time{} },
		"no food type":       func(d *Draft) { d.FoodType = "  " },
		"zero quantity":      func(d *Draft) { d.Quantity = 0 },
		"no unit":            func(d *Draft) { d.Unit = "" },
		"no expiry":          func(d *Draft) { d.ExpiresAt = nil },
		"food fields on clothes": func(d *Draft) {
			d.Category = CategoryClothes
		},
	}
	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			draft := food
			mutate(&draft)
			_, err := New(donor, draft, testNow)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := New(uuid.Nil, food, testNow)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDonation_Label(t *testing.T) {
	t.Parallel()

	d := &Donation{Category: CategoryFood, FoodType: "milk", Quantity: 2.5, Unit: "l"}
	assert.Equal(t, "2.5 l of milk", d.Label())
}

func TestDonation_Clone(t *testing.T) {
	t.Parallel()

	home := uuid.New()
	reason := "late"
	d := &Donation{MatchedHomeID: &home, RejectionReason: &reason}
	c := d.Clone()
	*c.MatchedHomeID = uuid.New()
	*c.RejectionReason = "changed"

	assert.Equal(t, home, *d.MatchedHomeID)
	assert.Equal(t, "late", *d.RejectionReason)
}

package donation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow  = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	admin    = Actor{Role: RoleAdmin, ID: uuid.New()}
	donorAct = Actor{Role: RoleDonor, ID: uuid.New()}
)

func donationIn(status Status, home *uuid.UUID) *Donation {
	return &Donation{
		ID:            uuid.New(),
		DonorID:       donorAct.ID,
		Category:      CategoryFood,
		FoodType:      "rice",
		Quantity:      36,
		Unit:          "kg",
		Status:        status,
		MatchedHomeID: home,
		CreatedAt:     testNow.Add(-time.Hour),
		UpdatedAt:     testNow.Add(-time.Hour),
	}
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestConfirmMatch(t *testing.T) {
	t.Parallel()

	home := uuid.New()

	tests := []struct {
		name    string
		status  Status
		matched *uuid.UUID
		actor   Actor
		homeID  uuid.UUID
		wantErr error
	}{
		{name: "pending food donation", status: StatusPending, actor: admin, homeID: home},
		{name: "approved non-food donation", status: StatusApproved, actor: admin, homeID: home},
		{name: "rematch from matched", status: StatusMatched, matched: ptr(uuid.New()), actor: admin, homeID: home},
		{name: "pending review needs approval first", status: StatusPendingAdminReview, actor: admin, homeID: home, wantErr: ErrInvalidTransition},
		{name: "already awaiting", status: StatusAwaitingRecipientApproval, matched: ptr(home), actor: admin, homeID: home, wantErr: ErrInvalidTransition},
		{name: "completed is terminal", status: StatusCompleted, matched: ptr(home), actor: admin, homeID: home, wantErr: ErrInvalidTransition},
		{name: "rejected is terminal", status: StatusRejected, actor: admin, homeID: home, wantErr: ErrInvalidTransition},
		{name: "donor cannot confirm", status: StatusPending, actor: donorAct, homeID: home, wantErr: ErrForbidden},
		{name: "home is required", status: StatusPending, actor: admin, homeID: uuid.Nil, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := donationIn(tt.status, tt.matched)
			before := d.Clone()

			ev, err := ConfirmMatch(d, tt.actor, tt.homeID, testNow)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, d, "failed transition must not mutate the donation")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusAwaitingRecipientApproval, d.Status)
			require.NotNil(t, d.MatchedHomeID)
			assert.Equal(t, tt.homeID, *d.MatchedHomeID)
			assert.Equal(t, testNow, d.UpdatedAt)
			assert.Equal(t, tt.status, ev.From)
			assert.Equal(t, StatusAwaitingRecipientApproval, ev.To)
			assert.Equal(t, tt.homeID, *ev.HomeID)
			assert.NoError(t, d.CheckInvariants())
		})
	}
}

func TestApprove(t *testing.T) {
	t.Parallel()

	t.Run("without home", func(t *testing.T) {
		t.Parallel()
		d := donationIn(StatusPendingAdminReview, nil)
		ev, err := Approve(d, admin, nil, testNow)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, d.Status)
		assert.Nil(t, d.MatchedHomeID)
		assert.Nil(t, ev.HomeID)
		assert.NoError(t, d.CheckInvariants())
	})

	t.Run("with home goes to matched", func(t *testing.T) {
		t.Parallel()
		home := uuid.New()
		d := donationIn(StatusPendingAdminReview, nil)
		ev, err := Approve(d, admin, &home, testNow)
		require.NoError(t, err)
		assert.Equal(t, StatusMatched, d.Status)
		assert.Equal(t, home, *d.MatchedHomeID)
		assert.Equal(t, StatusMatched, ev.To)
		assert.NoError(t, d.CheckInvariants())
	})

	t.Run("food donations skip review", func(t *testing.T) {
		t.Parallel()
		_, err := Approve(donationIn(StatusPending, nil), admin, nil, testNow)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("home cannot approve", func(t *testing.T) {
		t.Parallel()
		_, err := Approve(donationIn(StatusPendingAdminReview, nil), Actor{Role: RoleHome, ID: uuid.New()}, nil, testNow)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("nil home id", func(t *testing.T) {
		t.Parallel()
		nilID := uuid.Nil
		_, err := Approve(donationIn(StatusPendingAdminReview, nil), admin, &nilID, testNow)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestReject(t *testing.T) {
	t.Parallel()

	home := uuid.New()
	homeActor := Actor{Role: RoleHome, ID: home}
	otherHome := Actor{Role: RoleHome, ID: uuid.New()}

	tests := []struct {
		name    string
		status  Status
		matched *uuid.UUID
		actor   Actor
		wantErr error
	}{
		{name: "admin rejects pending", status: StatusPending, actor: admin},
		{name: "admin rejects review", status: StatusPendingAdminReview, actor: admin},
		{name: "admin rejects approved", status: StatusApproved, actor: admin},
		{name: "admin rejects matched", status: StatusMatched, matched: ptr(home), actor: admin},
		{name: "matched home rejects offer", status: StatusAwaitingRecipientApproval, matched: ptr(home), actor: homeActor},
		{name: "admin cannot override the home", status: StatusAwaitingRecipientApproval, matched: ptr(home), actor: admin, wantErr: ErrForbidden},
		{name: "other home", status: StatusAwaitingRecipientApproval, matched: ptr(home), actor: otherHome, wantErr: ErrForbidden},
		{name: "home before offer", status: StatusMatched, matched: ptr(home), actor: homeActor, wantErr: ErrInvalidTransition},
		{name: "donor", status: StatusPending, actor: donorAct, wantErr: ErrForbidden},
		{name: "completed", status: StatusCompleted, matched: ptr(home), actor: homeActor, wantErr: ErrInvalidTransition},
		{name: "already rejected", status: StatusRejected, actor: admin, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := donationIn(tt.status, tt.matched)
			ev, err := Reject(d, tt.actor, "capacity full", testNow)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, d.Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusRejected, d.Status)
			assert.Nil(t, d.MatchedHomeID)
			require.NotNil(t, d.RejectionReason)
			assert.Equal(t, "capacity full", *d.RejectionReason)
			assert.Equal(t, "capacity full", ev.Reason)
			assert.Equal(t, tt.matched, ev.HomeID)
			assert.NoError(t, d.CheckInvariants())
		})
	}
}

func TestReject_EmptyReason(t *testing.T) {
	t.Parallel()

	d := donationIn(StatusPending, nil)
	_, err := Reject(d, admin, "", testNow)
	require.NoError(t, err)
	assert.Nil(t, d.RejectionReason)
}

func TestAccept(t *testing.T) {
	t.Parallel()

	home := uuid.New()

	d := donationIn(StatusAwaitingRecipientApproval, ptr(home))
	_, err := Accept(d, Actor{Role: RoleHome, ID: uuid.New()}, testNow)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = Accept(d, admin, testNow)
	require.ErrorIs(t, err, ErrForbidden)

	ev, err := Accept(d, Actor{Role: RoleHome, ID: home}, testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, d.Status)
	assert.Equal(t, home, *d.MatchedHomeID)
	assert.Equal(t, StatusAwaitingRecipientApproval, ev.From)
	assert.NoError(t, d.CheckInvariants())

	_, err = Accept(d, Actor{Role: RoleHome, ID: home}, testNow)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

// Every transition function, applied from every status, either fails or follows
// an edge of the lifecycle graph and leaves the matched-home invariant intact.
func TestTransitions_FollowGraph(t *testing.T) {
	t.Parallel()

	home := uuid.New()
	homeActor := Actor{Role: RoleHome, ID: home}

	type attempt func(d *Donation) (TransitionEvent, error)
	attempts := map[string]attempt{
		"approve":           func(d *Donation) (TransitionEvent, error) { return Approve(d, admin, nil, testNow) },
		"approve with home": func(d *Donation) (TransitionEvent, error) { return Approve(d, admin, &home, testNow) },
		"confirm":           func(d *Donation) (TransitionEvent, error) { return ConfirmMatch(d, admin, home, testNow) },
		"admin reject":      func(d *Donation) (TransitionEvent, error) { return Reject(d, admin, "", testNow) },
		"home reject":       func(d *Donation) (TransitionEvent, error) { return Reject(d, homeActor, "", testNow) },
		"accept":            func(d *Donation) (TransitionEvent, error) { return Accept(d, homeActor, testNow) },
	}

	for _, status := range Statuses {
		for name, try := range attempts {
			var matched *uuid.UUID
			if status.HasMatchedHome() {
				matched = ptr(home)
			}
			d := donationIn(status, matched)

			ev, err := try(d)
			if err != nil {
				assert.Equal(t, status, d.Status, "%s from %s mutated status", name, status)
				continue
			}
			assert.True(t, CanTransition(status, d.Status), "%s: %s -> %s is not an edge", name, status, d.Status)
			assert.Equal(t, status, ev.From)
			assert.Equal(t, d.Status, ev.To)
			assert.NoError(t, d.CheckInvariants(), "%s from %s", name, status)
		}
	}

	for _, s := range []Status{StatusCompleted, StatusRejected} {
		for _, to := range Statuses {
			assert.False(t, CanTransition(s, to), "terminal %s must have no edges", s)
		}
	}
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside_server/models"
)

// pushRecorder captures realtime pushes so tests can assert on what was
// delivered after a successful commit.
type pushRecorder struct {
	sent []models.Notification
}

func (p *pushRecorder) Notify(n models.Notification) { p.sent = append(p.sent, n) }

func (p *pushRecorder) ofType(ntype string) []models.Notification {
	var out []models.Notification
	for _, n := range p.sent {
		if n.Type == ntype {
			out = append(out, n)
		}
	}
	return out
}

func newRosterEnv(t *testing.T) (*MemoryStore, *RosterService, *pushRecorder) {
	t.Helper()
	store := NewMemoryStore()
	push := &pushRecorder{}
	return store, &RosterService{Store: store, Push: push}, push
}

func seedEvent(t *testing.T, store *MemoryStore, mode string, slots int) *models.Event {
	t.Helper()
	ev := &models.Event{
		ID:             "ev-" + mode,
		Title:          "Tuesday Night Open Play",
		Venue:          "Court 3",
		OrganizerID:    "org1",
		Mode:           mode,
		SlotsAvailable: slots,
		CreatedAt:      nowStamp(),
	}
	tx := &Tx{}
	tx.Create(ev)
	require.NoError(t, store.Commit(context.Background(), tx))
	return ev
}

func getEvent(t *testing.T, store *MemoryStore, id string) *models.Event {
	t.Helper()
	ev, err := store.GetEvent(context.Background(), id)
	require.NoError(t, err)
	return ev
}

func getReg(t *testing.T, store *MemoryStore, id string) *models.Registration {
	t.Helper()
	reg, err := store.GetRegistration(context.Background(), id)
	require.NoError(t, err)
	return reg
}

func TestRegisterPlayersModeFillsThenWaitlists(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModePlayers, 2)

	r1, err := svc.Register(ctx, "alice", ev.ID)
	require.NoError(t, err)
	r2, err := svc.Register(ctx, "bob", ev.ID)
	require.NoError(t, err)
	r3, err := svc.Register(ctx, "carol", ev.ID)
	require.NoError(t, err)
	r4, err := svc.Register(ctx, "dave", ev.ID)
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationStatusConfirmed, r1.Status)
	assert.Equal(t, models.RegistrationStatusConfirmed, r2.Status)
	assert.Equal(t, models.RegistrationStatusWaitlist, r3.Status)
	assert.Equal(t, 1, r3.WaitlistPosition)
	assert.Equal(t, models.RegistrationStatusWaitlist, r4.Status)
	assert.Equal(t, 2, r4.WaitlistPosition)

	got := getEvent(t, store, ev.ID)
	assert.Equal(t, 2, got.RegistrationsCount)
	assert.Equal(t, 2, got.WaitlistCount)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModePlayers, 2)

	_, err := svc.Register(ctx, "alice", ev.ID)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", ev.ID)
	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, ErrCodeAlreadyRegistered, pre.Code)
}

func TestRegisterUnknownEvent(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newRosterEnv(t)

	_, err := svc.Register(ctx, "alice", "nope")
	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, ErrCodeEventNotFound, pre.Code)
}

func TestRegisterTeamsModeIsFreeAgent(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModeTeams, 2)

	reg, err := svc.Register(ctx, "alice", ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusConfirmed, reg.Status)
	assert.True(t, reg.LookingForPartner)
	assert.Empty(t, reg.TeamID)

	// Free agents hold no capacity.
	got := getEvent(t, store, ev.ID)
	assert.Equal(t, 0, got.RegistrationsCount)
	assert.Equal(t, 0, got.WaitlistCount)
}

func TestWithdrawConfirmedSeatPromotesEarliestWaitlisted(t *testing.T) {
	ctx := context.Background()
	store, svc, push := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModePlayers, 1)

	r1, err := svc.Register(ctx, "alice", ev.ID)
	require.NoError(t, err)
	r2, err := svc.Register(ctx, "bob", ev.ID)
	require.NoError(t, err)
	r3, err := svc.Register(ctx, "carol", ev.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Withdraw(ctx, "alice", r1.ID))

	// Bob joined the waitlist first, so Bob takes the seat.
	assert.Equal(t, models.RegistrationStatusConfirmed, getReg(t, store, r2.ID).Status)
	assert.Equal(t, models.RegistrationStatusWaitlist, getReg(t, store, r3.ID).Status)
	assert.Equal(t, models.RegistrationStatusCancelled, getReg(t, store, r1.ID).Status)

	got := getEvent(t, store, ev.ID)
	assert.Equal(t, 1, got.RegistrationsCount, "promotion keeps the seat occupied")
	assert.Equal(t, 1, got.WaitlistCount)

	promoted := push.ofType(models.NotificationWaitlistPromoted)
	require.Len(t, promoted, 1)
	assert.Equal(t, "bob", promoted[0].UserID)
}

func TestWithdrawConfirmedSeatEmptyWaitlist(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModePlayers, 2)

	r1, err := svc.Register(ctx, "alice", ev.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Withdraw(ctx, "alice", r1.ID))

	got := getEvent(t, store, ev.ID)
	assert.Equal(t, 0, got.RegistrationsCount)
	assert.Equal(t, 0, got.WaitlistCount)
}

func TestWithdrawFromWaitlistLeavesPositionsAlone(t *testing.T) {
	ctx := context.Background()
	store, svc, push := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModePlayers, 1)

	_, err := svc.Register(ctx, "alice", ev.ID)
	require.NoError(t, err)
	r2, err := svc.Register(ctx, "bob", ev.ID)
	require.NoError(t, err)
	r3, err := svc.Register(ctx, "carol", ev.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Withdraw(ctx, "bob", r2.ID))

	got := getEvent(t, store, ev.ID)
	assert.Equal(t, 1, got.RegistrationsCount)
	assert.Equal(t, 1, got.WaitlistCount)
	// Carol keeps her original ordinal; positions are never renumbered.
	assert.Equal(t, 2, getReg(t, store, r3.ID).WaitlistPosition)
	assert.Empty(t, push.ofType(models.NotificationWaitlistPromoted))
}

func TestWithdrawIdempotent(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModePlayers, 2)

	r1, err := svc.Register(ctx, "alice", ev.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Withdraw(ctx, "alice", r1.ID))
	require.NoError(t, svc.Withdraw(ctx, "alice", r1.ID), "second withdrawal is a no-op")
	require.NoError(t, svc.Withdraw(ctx, "alice", "gone-entirely"), "missing registration is benign")

	got := getEvent(t, store, ev.ID)
	assert.Equal(t, 0, got.RegistrationsCount, "counters moved exactly once")
}

func TestWithdrawRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModePlayers, 2)

	r1, err := svc.Register(ctx, "alice", ev.ID)
	require.NoError(t, err)

	err = svc.Withdraw(ctx, "mallory", r1.ID)
	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, ErrCodeNotRegistrationOwner, pre.Code)
}

func TestRegisterRetriesOnCommitConflict(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModePlayers, 2)

	store.FailNextCommits(2)
	reg, err := svc.Register(ctx, "alice", ev.ID)
	require.NoError(t, err, "conflicts within the retry budget are absorbed")
	assert.Equal(t, models.RegistrationStatusConfirmed, reg.Status)

	got := getEvent(t, store, ev.ID)
	assert.Equal(t, 1, got.RegistrationsCount, "counters moved exactly once despite retries")
}

func TestRegisterGivesUpAfterRetryBudget(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRosterEnv(t)
	ev := seedEvent(t, store, models.EventModePlayers, 2)

	store.FailNextCommits(maxTxnAttempts)
	_, err := svc.Register(ctx, "alice", ev.ID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	got := getEvent(t, store, ev.ID)
	assert.Equal(t, 0, got.RegistrationsCount, "nothing was applied")
}

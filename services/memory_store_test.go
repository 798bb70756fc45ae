package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside_server/models"
)

func TestMemoryStoreCreateAndVersioning(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ev := &models.Event{ID: "ev1", Title: "Open Play", Mode: models.EventModePlayers, SlotsAvailable: 4}
	tx := &Tx{}
	tx.Create(ev)
	require.NoError(t, store.Commit(ctx, tx))

	got, err := store.GetEvent(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version, "create stamps version 1")

	// Creating the same id again must conflict.
	dup := &models.Event{ID: "ev1"}
	tx = &Tx{}
	tx.Create(dup)
	assert.ErrorIs(t, store.Commit(ctx, tx), ErrTxConflict)
}

func TestMemoryStoreUpdateRequiresObservedVersion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ev := &models.Event{ID: "ev1", SlotsAvailable: 4}
	tx := &Tx{}
	tx.Create(ev)
	require.NoError(t, store.Commit(ctx, tx))

	fresh, err := store.GetEvent(ctx, "ev1")
	require.NoError(t, err)
	fresh.RegistrationsCount = 1
	tx = &Tx{}
	tx.Update(fresh, fresh.Version)
	require.NoError(t, store.Commit(ctx, tx))

	got, err := store.GetEvent(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.RegistrationsCount)
	assert.Equal(t, int64(2), got.Version)

	// A writer holding the old version must lose.
	stale := &models.Event{ID: "ev1", RegistrationsCount: 99}
	tx = &Tx{}
	tx.Update(stale, 1)
	assert.ErrorIs(t, store.Commit(ctx, tx), ErrTxConflict)

	got, err = store.GetEvent(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.RegistrationsCount, "failed commit applied nothing")
}

func TestMemoryStoreCommitIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ev := &models.Event{ID: "ev1", SlotsAvailable: 4}
	tx := &Tx{}
	tx.Create(ev)
	require.NoError(t, store.Commit(ctx, tx))

	// One good write plus one conditioned on a wrong version: nothing lands.
	fresh, err := store.GetEvent(ctx, "ev1")
	require.NoError(t, err)
	fresh.RegistrationsCount = 1
	reg := &models.Registration{ID: "r1", EventID: "ev1", PlayerID: "alice"}
	tx = &Tx{}
	tx.Create(reg)
	tx.Update(fresh, fresh.Version+7)
	require.ErrorIs(t, store.Commit(ctx, tx), ErrTxConflict)

	_, err = store.GetRegistration(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := store.GetEvent(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.RegistrationsCount)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	reg := &models.Registration{ID: "r1", EventID: "ev1", PlayerID: "alice"}
	tx := &Tx{}
	tx.Create(reg)
	require.NoError(t, store.Commit(ctx, tx))

	fresh, err := store.GetRegistration(ctx, "r1")
	require.NoError(t, err)
	tx = &Tx{}
	tx.Delete(fresh, fresh.Version)
	require.NoError(t, store.Commit(ctx, tx))

	_, err = store.GetRegistration(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreNotificationsByUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	tx := &Tx{}
	tx.Create(&models.Notification{ID: "n1", UserID: "alice", CreatedAt: "2026-08-01T10:00:00Z"})
	tx.Create(&models.Notification{ID: "n2", UserID: "alice", CreatedAt: "2026-08-03T10:00:00Z"})
	tx.Create(&models.Notification{ID: "n3", UserID: "bob", CreatedAt: "2026-08-02T10:00:00Z"})
	require.NoError(t, store.Commit(ctx, tx))

	got, err := store.NotificationsByUser(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID, "newest first")
	assert.Equal(t, "n1", got[1].ID)

	got, err = store.NotificationsByUser(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "n2", got[0].ID)
}

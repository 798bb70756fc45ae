package services

import (
	"context"
	"errors"

	"courtside_server/models"
)

var (
	// ErrNotFound is returned by point reads when the record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrTxConflict is returned by Commit when a member of the write set was
	// concurrently modified since it was read. The caller must re-run both
	// the classification and the commit phase.
	ErrTxConflict = errors.New("transaction conflict: read set changed")
)

// Record is one versioned document in the store.
type Record interface {
	TableName() string
	RecordID() string
	RecordVersion() int64
	SetRecordVersion(int64)
}

// Write is one element of a transactional commit. Expect is the version
// observed during the commit-phase read; 0 means the record must not exist
// yet. Delete removes the record instead of putting it.
type Write struct {
	Record Record
	Expect int64
	Delete bool
}

// Tx accumulates the write set of one atomic commit. All writes either
// apply together or not at all.
type Tx struct {
	Writes []Write
}

// Create adds a record that must not exist yet.
func (t *Tx) Create(rec Record) {
	t.Writes = append(t.Writes, Write{Record: rec})
}

// Update replaces a record, conditioned on the version observed when it was
// read during the commit phase.
func (t *Tx) Update(rec Record, expect int64) {
	t.Writes = append(t.Writes, Write{Record: rec, Expect: expect})
}

// Delete removes a record, conditioned on the observed version.
func (t *Tx) Delete(rec Record, expect int64) {
	t.Writes = append(t.Writes, Write{Record: rec, Expect: expect, Delete: true})
}

// Empty reports whether the transaction has no writes.
func (t *Tx) Empty() bool { return len(t.Writes) == 0 }

// Store is the document-store capability the roster engine runs against.
// Point reads are strongly consistent; index queries are advisory and may
// lag. Commit applies the whole write set atomically, failing with
// ErrTxConflict if any conditioned record changed since it was read.
type Store interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetRegistration(ctx context.Context, id string) (*models.Registration, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	GetNotification(ctx context.Context, id string) (*models.Notification, error)

	ListEvents(ctx context.Context) ([]models.Event, error)
	RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error)
	TeamsByEvent(ctx context.Context, eventID string) ([]models.Team, error)
	NotificationsByUser(ctx context.Context, userID string, limit int32) ([]models.Notification, error)

	Commit(ctx context.Context, tx *Tx) error
}

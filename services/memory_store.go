package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"courtside_server/models"
)

// MemoryStore is an in-process Store with the same versioned-commit
// semantics as DynamoStore. It backs the engine tests and local development
// without AWS credentials (STORE_BACKEND=memory).
type MemoryStore struct {
	mu      sync.Mutex
	tables  map[string]map[string]Record
	failing int // test hook: number of upcoming commits to fail with ErrTxConflict
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[string]Record)}
}

// FailNextCommits makes the next n commits fail with ErrTxConflict without
// applying any writes. Used by tests to exercise the retry loop.
func (s *MemoryStore) FailNextCommits(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = n
}

// clone returns an independent copy so callers never share memory with the
// stored record.
func clone(rec Record) Record {
	switch r := rec.(type) {
	case *models.Event:
		c := *r
		return &c
	case *models.Registration:
		c := *r
		return &c
	case *models.Team:
		c := *r
		return &c
	case *models.Notification:
		c := *r
		return &c
	}
	panic(fmt.Sprintf("memory store: unknown record type %T", rec))
}

func (s *MemoryStore) get(tableName, id string) (Record, bool) {
	table, ok := s.tables[tableName]
	if !ok {
		return nil, false
	}
	rec, ok := table[id]
	return rec, ok
}

func (s *MemoryStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.get(models.Event{}.TableName(), id)
	if !ok {
		return nil, ErrNotFound
	}
	return clone(rec).(*models.Event), nil
}

func (s *MemoryStore) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.get(models.Registration{}.TableName(), id)
	if !ok {
		return nil, ErrNotFound
	}
	return clone(rec).(*models.Registration), nil
}

func (s *MemoryStore) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.get(models.Team{}.TableName(), id)
	if !ok {
		return nil, ErrNotFound
	}
	return clone(rec).(*models.Team), nil
}

func (s *MemoryStore) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.get(models.Notification{}.TableName(), id)
	if !ok {
		return nil, ErrNotFound
	}
	return clone(rec).(*models.Notification), nil
}

func (s *MemoryStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []models.Event
	for _, rec := range s.tables[models.Event{}.TableName()] {
		events = append(events, *clone(rec).(*models.Event))
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt < events[j].CreatedAt })
	return events, nil
}

func (s *MemoryStore) RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var regs []models.Registration
	for _, rec := range s.tables[models.Registration{}.TableName()] {
		r := rec.(*models.Registration)
		if r.EventID == eventID {
			regs = append(regs, *clone(rec).(*models.Registration))
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].CreatedAt < regs[j].CreatedAt })
	return regs, nil
}

func (s *MemoryStore) TeamsByEvent(ctx context.Context, eventID string) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var teams []models.Team
	for _, rec := range s.tables[models.Team{}.TableName()] {
		t := rec.(*models.Team)
		if t.EventID == eventID {
			teams = append(teams, *clone(rec).(*models.Team))
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].CreatedAt < teams[j].CreatedAt })
	return teams, nil
}

func (s *MemoryStore) NotificationsByUser(ctx context.Context, userID string, limit int32) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var notifications []models.Notification
	for _, rec := range s.tables[models.Notification{}.TableName()] {
		n := rec.(*models.Notification)
		if n.UserID == userID {
			notifications = append(notifications, *clone(rec).(*models.Notification))
		}
	}
	// latest first, matching the UserIndex query
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].CreatedAt > notifications[j].CreatedAt })
	if int32(len(notifications)) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

// Commit verifies every conditioned write against the stored versions, then
// applies the whole set. Any mismatch fails the entire transaction with
// ErrTxConflict and applies nothing.
func (s *MemoryStore) Commit(ctx context.Context, tx *Tx) error {
	if tx.Empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing > 0 {
		s.failing--
		return ErrTxConflict
	}

	// Verify phase.
	for _, w := range tx.Writes {
		stored, ok := s.get(w.Record.TableName(), w.Record.RecordID())
		if w.Expect == 0 && !w.Delete {
			if ok {
				return ErrTxConflict
			}
			continue
		}
		if !ok || stored.RecordVersion() != w.Expect {
			return ErrTxConflict
		}
	}

	// Apply phase.
	for _, w := range tx.Writes {
		tableName := w.Record.TableName()
		if s.tables[tableName] == nil {
			s.tables[tableName] = make(map[string]Record)
		}
		if w.Delete {
			delete(s.tables[tableName], w.Record.RecordID())
			continue
		}
		w.Record.SetRecordVersion(w.Expect + 1)
		s.tables[tableName][w.Record.RecordID()] = clone(w.Record)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"courtside_server/models"
)

// Broadcaster receives successfully committed notifications for realtime
// delivery. Delivery is fire-and-forget: a failed push never affects the
// committed roster state.
type Broadcaster interface {
	Notify(n models.Notification)
}

// NotificationService serves the read-only notification feed.
type NotificationService struct {
	Store Store
}

// Feed returns the latest notifications for a user, newest first.
func (s *NotificationService) Feed(ctx context.Context, userID string, limit int32) ([]models.Notification, error) {
	return s.Store.NotificationsByUser(ctx, userID, limit)
}

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339Nano) }

// appendNotification creates a notification inside the transaction and
// queues it in the outbox pushed after the commit succeeds.
func (s *RosterService) appendNotification(tx *Tx, outbox *[]models.Notification, userID, ntype, title, message, eventID, teamID string) {
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: nowStamp(),
		Type:      ntype,
		Title:     title,
		Message:   message,
		EventID:   eventID,
		TeamID:    teamID,
	}
	tx.Create(n)
	*outbox = append(*outbox, *n)
}

// markNotificationRead marks the notification that announced the action the
// user is now taking. A missing or already-consumed notification is benign.
func (s *RosterService) markNotificationRead(ctx context.Context, tx *Tx, notificationID string) error {
	if notificationID == "" {
		return nil
	}
	n, err := s.Store.GetNotification(ctx, notificationID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	n.Read = true
	tx.Update(n, n.Version)
	return nil
}

func (s *RosterService) pushOutbox(outbox []models.Notification) {
	if s.Push == nil {
		return
	}
	for _, n := range outbox {
		s.Push.Notify(n)
	}
}

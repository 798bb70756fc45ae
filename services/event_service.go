package services

import (
	"context"

	"github.com/google/uuid"

	"courtside_server/models"
)

// EventService handles organizer-facing event CRUD. Counters always start
// at zero and are only ever moved by the roster engine.
type EventService struct {
	Store Store
}

type CreateEventInput struct {
	Title          string `json:"title"`
	Venue          string `json:"venue"`
	OrganizerID    string `json:"organizerId"`
	Mode           string `json:"mode"`
	SlotsAvailable int    `json:"slotsAvailable"`
	StartTime      string `json:"startTime"`
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	if in.Mode != models.EventModePlayers && in.Mode != models.EventModeTeams {
		return nil, precondition(ErrCodeInvalidEvent, "mode must be %q or %q", models.EventModePlayers, models.EventModeTeams)
	}
	if in.SlotsAvailable <= 0 {
		return nil, precondition(ErrCodeInvalidEvent, "slotsAvailable must be positive")
	}

	ev := &models.Event{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Venue:          in.Venue,
		OrganizerID:    in.OrganizerID,
		Mode:           in.Mode,
		SlotsAvailable: in.SlotsAvailable,
		StartTime:      in.StartTime,
		CreatedAt:      nowStamp(),
	}

	tx := &Tx{}
	tx.Create(ev)
	if err := s.Store.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.Store.GetEvent(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.Store.ListEvents(ctx)
}

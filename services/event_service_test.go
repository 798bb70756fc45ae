package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside_server/models"
)

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := &EventService{Store: store}

	ev, err := svc.CreateEvent(ctx, CreateEventInput{
		Title:          "Saturday Doubles Ladder",
		Venue:          "Riverside Courts",
		OrganizerID:    "org1",
		Mode:           models.EventModeTeams,
		SlotsAvailable: 8,
		StartTime:      "2026-09-05T09:00:00Z",
	})
	require.NoError(t, err)
	require.NotEmpty(t, ev.ID)
	assert.Equal(t, 0, ev.RegistrationsCount, "counters start at zero")
	assert.Equal(t, 0, ev.WaitlistCount)

	got, err := svc.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Saturday Doubles Ladder", got.Title)

	all, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateEventValidation(t *testing.T) {
	ctx := context.Background()
	svc := &EventService{Store: NewMemoryStore()}

	tests := []struct {
		name string
		in   CreateEventInput
	}{
		{"bad mode", CreateEventInput{Mode: "mixed", SlotsAvailable: 4}},
		{"zero slots", CreateEventInput{Mode: models.EventModePlayers, SlotsAvailable: 0}},
		{"negative slots", CreateEventInput{Mode: models.EventModeTeams, SlotsAvailable: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEvent(ctx, tt.in)
			var pre *PreconditionError
			require.ErrorAs(t, err, &pre)
			assert.Equal(t, ErrCodeInvalidEvent, pre.Code)
		})
	}
}

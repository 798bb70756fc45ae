package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside_server/models"
)

func TestPlacement(t *testing.T) {
	tests := []struct {
		name               string
		registrationsCount int
		slotsAvailable     int
		waitlistCount      int
		wantStatus         string
		wantPosition       int
	}{
		{"empty event", 0, 4, 0, models.RegistrationStatusConfirmed, 0},
		{"last free slot", 3, 4, 0, models.RegistrationStatusConfirmed, 0},
		{"full event starts waitlist", 4, 4, 0, models.RegistrationStatusWaitlist, 1},
		{"waitlist grows fifo", 4, 4, 2, models.RegistrationStatusWaitlist, 3},
		{"single slot event", 1, 1, 0, models.RegistrationStatusWaitlist, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, pos := Placement(tt.registrationsCount, tt.slotsAvailable, tt.waitlistCount)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantPosition, pos)
		})
	}
}

func TestNextWaitlistedRegistration(t *testing.T) {
	regs := []models.Registration{
		{ID: "r1", Status: models.RegistrationStatusConfirmed},
		{ID: "r2", Status: models.RegistrationStatusWaitlist, WaitlistPosition: 5, CreatedAt: "2026-08-01T10:00:00Z"},
		{ID: "r3", Status: models.RegistrationStatusWaitlist, WaitlistPosition: 2, CreatedAt: "2026-08-01T11:00:00Z"},
		{ID: "r4", Status: models.RegistrationStatusCancelled, WaitlistPosition: 1},
	}

	next := NextWaitlistedRegistration(regs)
	require.NotNil(t, next)
	assert.Equal(t, "r3", next.ID, "lowest waitlist position wins, gaps are fine")

	assert.Nil(t, NextWaitlistedRegistration(nil))
	assert.Nil(t, NextWaitlistedRegistration(regs[:1]))
}

func TestNextWaitlistedRegistrationTiebreak(t *testing.T) {
	// Positions can collide after concurrent joins; creation time decides.
	regs := []models.Registration{
		{ID: "late", Status: models.RegistrationStatusWaitlist, WaitlistPosition: 3, CreatedAt: "2026-08-02T09:00:00Z"},
		{ID: "early", Status: models.RegistrationStatusWaitlist, WaitlistPosition: 3, CreatedAt: "2026-08-01T09:00:00Z"},
	}
	next := NextWaitlistedRegistration(regs)
	require.NotNil(t, next)
	assert.Equal(t, "early", next.ID)
}

func TestNextWaitlistedTeam(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Status: models.TeamStatusConfirmed, RegistrationID: "r1"},
		{ID: "t2", Status: models.TeamStatusWaitlist, RegistrationID: "r2"},
		{ID: "t3", Status: models.TeamStatusWaitlist, RegistrationID: "r3"},
		{ID: "t4", Status: models.TeamStatusWaitlist, RegistrationID: "missing"},
	}
	regs := []models.Registration{
		{ID: "r1", Status: models.RegistrationStatusConfirmed},
		{ID: "r2", Status: models.RegistrationStatusWaitlist, WaitlistPosition: 4},
		{ID: "r3", Status: models.RegistrationStatusWaitlist, WaitlistPosition: 1},
	}

	team, reg := NextWaitlistedTeam(teams, regs)
	require.NotNil(t, team)
	require.NotNil(t, reg)
	assert.Equal(t, "t3", team.ID)
	assert.Equal(t, "r3", reg.ID)

	team, reg = NextWaitlistedTeam(teams[:1], regs)
	assert.Nil(t, team)
	assert.Nil(t, reg)
}

package services

import "courtside_server/models"

// The seat allocator. Pure functions over counters and pre-fetched rosters;
// every caller must re-evaluate them against fresh reads inside the commit
// phase, since concurrent releases and promotions move the counters.

// Placement assigns a new occupant a status given the live counters. A seat
// is granted while registrationsCount < slotsAvailable; otherwise the
// occupant goes to the back of the waitlist and waitlistPosition is its
// FIFO ordinal (meaningless when the status is confirmed).
func Placement(registrationsCount, slotsAvailable, waitlistCount int) (status string, waitlistPosition int) {
	if registrationsCount < slotsAvailable {
		return models.RegistrationStatusConfirmed, 0
	}
	return models.RegistrationStatusWaitlist, waitlistCount + 1
}

// NextWaitlistedRegistration returns the earliest waitlisted registration
// (FIFO by waitlistPosition, ties broken by creation time), or nil if the
// waitlist is empty. Used in players mode when a confirmed seat frees up.
func NextWaitlistedRegistration(regs []models.Registration) *models.Registration {
	var best *models.Registration
	for i := range regs {
		r := &regs[i]
		if r.Status != models.RegistrationStatusWaitlist {
			continue
		}
		if best == nil || earlier(r.WaitlistPosition, r.CreatedAt, best.WaitlistPosition, best.CreatedAt) {
			best = r
		}
	}
	return best
}

// NextWaitlistedTeam returns the earliest waitlisted team and its shared
// registration, or nils if none. The FIFO ordinal lives on the shared
// registration. Teams whose registration cannot be resolved are skipped.
func NextWaitlistedTeam(teams []models.Team, regs []models.Registration) (*models.Team, *models.Registration) {
	byID := make(map[string]*models.Registration, len(regs))
	for i := range regs {
		byID[regs[i].ID] = &regs[i]
	}

	var bestTeam *models.Team
	var bestReg *models.Registration
	for i := range teams {
		t := &teams[i]
		if t.Status != models.TeamStatusWaitlist {
			continue
		}
		r, ok := byID[t.RegistrationID]
		if !ok || r.Status != models.RegistrationStatusWaitlist {
			continue
		}
		if bestReg == nil || earlier(r.WaitlistPosition, r.CreatedAt, bestReg.WaitlistPosition, bestReg.CreatedAt) {
			bestTeam, bestReg = t, r
		}
	}
	return bestTeam, bestReg
}

// earlier orders waitlist entries by position, then by creation time.
// Positions are never renumbered when a mid-list entry leaves, so gaps and
// the occasional duplicate position are expected.
func earlier(pos int, createdAt string, bestPos int, bestCreatedAt string) bool {
	if pos != bestPos {
		return pos < bestPos
	}
	return createdAt < bestCreatedAt
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"courtside_server/models"
)

// RosterService is the partner-pairing and roster-consistency engine. Every
// public operation runs the classify-then-commit protocol of txn.go: ordinary
// reads shape the writes, then the commit re-reads the write set with
// strongly consistent gets and lands all writes in one atomic,
// version-conditioned transaction. Counters and statuses therefore always
// move together.
type RosterService struct {
	Store Store
	Push  Broadcaster
}

// Register books an individual seat. In players mode the seat allocator
// decides confirmed vs waitlist and moves the event counters; in teams mode
// the result is a free-agent registration that consumes no capacity until a
// pairing seals.
func (s *RosterService) Register(ctx context.Context, userID, eventID string) (*models.Registration, error) {
	var created *models.Registration

	err := runTxn(ctx, "register", func(ctx context.Context) error {
		ev, err := s.fetchEvent(ctx, eventID)
		if err != nil {
			return err
		}

		regs, err := s.Store.RegistrationsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		for i := range regs {
			if regs[i].Live() && regs[i].PlayerID == userID {
				return precondition(ErrCodeAlreadyRegistered, "user %s is already registered for event %s", userID, eventID)
			}
		}
		teams, err := s.Store.TeamsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		for i := range teams {
			t := &teams[i]
			if t.HasMember(userID) && t.ConfirmedBy(userID) && t.Status != models.TeamStatusPending {
				return precondition(ErrCodeAlreadyRegistered, "user %s already holds a team seat for event %s", userID, eventID)
			}
		}

		tx := &Tx{}
		reg := &models.Registration{
			ID:            uuid.NewString(),
			EventID:       eventID,
			PlayerID:      userID,
			PartnerStatus: models.PartnerStatusNone,
			CreatedAt:     nowStamp(),
		}

		if ev.Mode == models.EventModeTeams {
			// Free agent: confirmed intent, holds no capacity until paired.
			reg.Status = models.RegistrationStatusConfirmed
			reg.LookingForPartner = true
			tx.Create(reg)
		} else {
			status, pos := Placement(ev.RegistrationsCount, ev.SlotsAvailable, ev.WaitlistCount)
			reg.Status = status
			reg.WaitlistPosition = pos
			if status == models.RegistrationStatusConfirmed {
				ev.RegistrationsCount++
			} else {
				ev.WaitlistCount++
			}
			tx.Create(reg)
			tx.Update(ev, ev.Version)
		}

		if err := s.Store.Commit(ctx, tx); err != nil {
			return err
		}
		created = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Withdraw removes a user's seat entirely. Withdrawal never leaves a
// survivor: a paired teams-mode withdrawal deletes the team and the shared
// registration for both players, then the freed seat (if any) goes to the
// earliest waitlisted entrant.
func (s *RosterService) Withdraw(ctx context.Context, userID, registrationID string) error {
	var outbox []models.Notification

	err := runTxn(ctx, "withdraw", func(ctx context.Context) error {
		outbox = outbox[:0]

		reg, err := s.Store.GetRegistration(ctx, registrationID)
		if errors.Is(err, ErrNotFound) {
			return nil // already gone, benign
		}
		if err != nil {
			return err
		}
		if reg.PlayerID != userID {
			return precondition(ErrCodeNotRegistrationOwner, "registration %s is not owned by user %s", registrationID, userID)
		}
		if !reg.Live() {
			return nil // already cancelled
		}

		ev, err := s.fetchEvent(ctx, reg.EventID)
		if err != nil {
			return err
		}
		origRegCount, origWaitCount := ev.RegistrationsCount, ev.WaitlistCount

		var team *models.Team
		if reg.TeamID != "" {
			team, err = s.Store.GetTeam(ctx, reg.TeamID)
			if errors.Is(err, ErrNotFound) {
				team = nil // stale back-reference, treat the seat as solo
			} else if err != nil {
				return err
			}
		}

		tx := &Tx{}
		if team != nil {
			tx.Delete(team, team.Version)
			tx.Delete(reg, reg.Version)
			switch team.Status {
			case models.TeamStatusConfirmed:
				if err := s.releaseConfirmedTeamSeat(ctx, tx, ev, &outbox, team.ID); err != nil {
					return err
				}
			case models.TeamStatusWaitlist:
				ev.WaitlistCount--
			case models.TeamStatusPending:
				// A pending pairing riding on a counted survivor seat still
				// occupies capacity; free it with the seat.
				if reg.HoldsSlot {
					if err := s.releaseConfirmedTeamSeat(ctx, tx, ev, &outbox, team.ID); err != nil {
						return err
					}
				}
			}
			if partner := team.OtherMember(userID); partner != "" {
				s.appendNotification(tx, &outbox, partner, models.NotificationPartnerLeft,
					"Your team was withdrawn",
					fmt.Sprintf("Your partner withdrew your team from %s.", ev.Title),
					ev.ID, "")
			}
		} else {
			wasStatus, heldSlot := reg.Status, reg.HoldsSlot
			reg.Status = models.RegistrationStatusCancelled
			reg.LookingForPartner = false
			reg.HoldsSlot = false
			tx.Update(reg, reg.Version)
			if ev.Mode == models.EventModePlayers {
				switch wasStatus {
				case models.RegistrationStatusConfirmed:
					if err := s.releaseConfirmedPlayerSeat(ctx, tx, ev, &outbox, reg.ID); err != nil {
						return err
					}
				case models.RegistrationStatusWaitlist:
					ev.WaitlistCount--
				}
			} else if heldSlot && wasStatus == models.RegistrationStatusConfirmed {
				// A counted survivor seat frees real capacity; an ordinary
				// free agent holds none and moves no counters.
				if err := s.releaseConfirmedTeamSeat(ctx, tx, ev, &outbox, ""); err != nil {
					return err
				}
			}
		}

		if ev.RegistrationsCount != origRegCount || ev.WaitlistCount != origWaitCount {
			tx.Update(ev, ev.Version)
		}
		return s.Store.Commit(ctx, tx)
	})
	if err != nil {
		return err
	}
	s.pushOutbox(outbox)
	return nil
}

// releaseConfirmedPlayerSeat applies the allocator's release rule in players
// mode: promote the earliest waitlisted registration (waitlistCount drops,
// registrationsCount is unchanged), or decrement registrationsCount when the
// waitlist is empty.
func (s *RosterService) releaseConfirmedPlayerSeat(ctx context.Context, tx *Tx, ev *models.Event, outbox *[]models.Notification, excludeRegID string) error {
	regs, err := s.Store.RegistrationsByEvent(ctx, ev.ID)
	if err != nil {
		return err
	}
	candidates := regs[:0]
	for i := range regs {
		if regs[i].ID != excludeRegID {
			candidates = append(candidates, regs[i])
		}
	}

	next := NextWaitlistedRegistration(candidates)
	if next == nil {
		ev.RegistrationsCount--
		return nil
	}

	// Re-read the candidate inside the commit phase; the index query that
	// found it is only advisory.
	fresh, err := s.Store.GetRegistration(ctx, next.ID)
	if errors.Is(err, ErrNotFound) {
		return ErrTxConflict
	}
	if err != nil {
		return err
	}
	if fresh.Status != models.RegistrationStatusWaitlist {
		return ErrTxConflict
	}

	fresh.Status = models.RegistrationStatusConfirmed
	fresh.WaitlistPosition = 0
	tx.Update(fresh, fresh.Version)
	ev.WaitlistCount--
	s.appendNotification(tx, outbox, fresh.PlayerID, models.NotificationWaitlistPromoted,
		"You're in!",
		fmt.Sprintf("A spot opened up in %s and you were moved off the waitlist.", ev.Title),
		ev.ID, "")
	return nil
}

// releaseConfirmedTeamSeat is the teams-mode counterpart: the earliest
// waitlisted team (FIFO by its shared registration) takes the freed seat.
func (s *RosterService) releaseConfirmedTeamSeat(ctx context.Context, tx *Tx, ev *models.Event, outbox *[]models.Notification, excludeTeamID string) error {
	teams, err := s.Store.TeamsByEvent(ctx, ev.ID)
	if err != nil {
		return err
	}
	regs, err := s.Store.RegistrationsByEvent(ctx, ev.ID)
	if err != nil {
		return err
	}
	candidates := teams[:0]
	for i := range teams {
		if teams[i].ID != excludeTeamID {
			candidates = append(candidates, teams[i])
		}
	}

	cand, candReg := NextWaitlistedTeam(candidates, regs)
	if cand == nil {
		ev.RegistrationsCount--
		return nil
	}

	freshTeam, err := s.Store.GetTeam(ctx, cand.ID)
	if errors.Is(err, ErrNotFound) {
		return ErrTxConflict
	}
	if err != nil {
		return err
	}
	freshReg, err := s.Store.GetRegistration(ctx, candReg.ID)
	if errors.Is(err, ErrNotFound) {
		return ErrTxConflict
	}
	if err != nil {
		return err
	}
	if freshTeam.Status != models.TeamStatusWaitlist || freshReg.Status != models.RegistrationStatusWaitlist {
		return ErrTxConflict
	}

	freshTeam.Status = models.TeamStatusConfirmed
	freshReg.Status = models.RegistrationStatusConfirmed
	freshReg.WaitlistPosition = 0
	tx.Update(freshTeam, freshTeam.Version)
	tx.Update(freshReg, freshReg.Version)
	ev.WaitlistCount--
	for _, member := range []string{freshTeam.Player1ID, freshTeam.Player2ID} {
		s.appendNotification(tx, outbox, member, models.NotificationWaitlistPromoted,
			"Your team is in!",
			fmt.Sprintf("A team spot opened up in %s and your team was moved off the waitlist.", ev.Title),
			ev.ID, freshTeam.ID)
	}
	return nil
}

func (s *RosterService) fetchEvent(ctx context.Context, eventID string) (*models.Event, error) {
	ev, err := s.Store.GetEvent(ctx, eventID)
	if errors.Is(err, ErrNotFound) {
		return nil, precondition(ErrCodeEventNotFound, "event %s does not exist", eventID)
	}
	return ev, err
}

// revertToOpen returns a registration to an unpaired, open free-agent seat.
// A pending pairing vehicle becomes a confirmed free-agent entry; a seat
// that already held confirmed status keeps it.
func revertToOpen(reg *models.Registration, partnerStatus string) {
	reg.Player2ID = ""
	reg.TeamID = ""
	reg.PartnerStatus = partnerStatus
	reg.LookingForPartner = true
	reg.WaitlistPosition = 0
	if reg.Status == models.RegistrationStatusPending {
		reg.Status = models.RegistrationStatusConfirmed
	}
}

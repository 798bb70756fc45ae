package services

import (
	"context"
	"errors"
	"fmt"

	"courtside_server/models"
)

// AcceptInvite seals a pending pairing from the invited side. The seat
// allocator decides, against counters read in the commit phase, whether the
// sealed team is confirmed or waitlisted. The acceptor's other pending
// invites are dissolved in the same commit: a user can only be paired once
// per event.
func (s *RosterService) AcceptInvite(ctx context.Context, acceptorID, teamID, notificationID string) (*models.Team, error) {
	var result *models.Team
	var outbox []models.Notification

	err := runTxn(ctx, "acceptInvite", func(ctx context.Context) error {
		outbox = outbox[:0]

		team, err := s.Store.GetTeam(ctx, teamID)
		if errors.Is(err, ErrNotFound) {
			// Dissolved by another actor in the meantime: consume the
			// notification and succeed quietly.
			return s.commitNotificationRead(ctx, notificationID)
		}
		if err != nil {
			return err
		}
		if !team.HasMember(acceptorID) {
			return precondition(ErrCodeNotTeamMember, "user %s is not part of this team", acceptorID)
		}
		if team.Status != models.TeamStatusPending {
			// Double accept: the second call is a no-op.
			result = team
			return s.commitNotificationRead(ctx, notificationID)
		}
		if team.ConfirmedBy(acceptorID) {
			return precondition(ErrCodeNotInviteTarget, "user %s is not the invited side of this team", acceptorID)
		}

		ev, err := s.fetchEvent(ctx, team.EventID)
		if err != nil {
			return err
		}
		teams, err := s.Store.TeamsByEvent(ctx, team.EventID)
		if err != nil {
			return err
		}
		regs, err := s.Store.RegistrationsByEvent(ctx, team.EventID)
		if err != nil {
			return err
		}

		other := team.OtherMember(acceptorID)

		// The inviter may have sealed a different pairing since this invite
		// went out; the invite being accepted is then an orphan.
		for i := range teams {
			t := &teams[i]
			if t.ID != team.ID && t.HasMember(other) && t.ConfirmedBy(other) && t.Status != models.TeamStatusPending {
				return s.dissolveStaleTeam(ctx, ev, team, acceptorID, notificationID)
			}
		}

		reg, err := s.Store.GetRegistration(ctx, team.RegistrationID)
		if errors.Is(err, ErrNotFound) {
			return ErrTxConflict
		}
		if err != nil {
			return err
		}

		tx := &Tx{}

		// The invite flow guarantees the other side already confirmed, so
		// flipping the acceptor's flag seals the pairing.
		if team.Player1ID == acceptorID {
			team.Player1Confirmed = true
		} else {
			team.Player2Confirmed = true
		}

		if reg.HoldsSlot {
			// The survivor's seat is already counted; sealing onto it
			// changes who shares the seat, not occupancy.
			team.Status = models.TeamStatusConfirmed
			reg.Status = models.RegistrationStatusConfirmed
			reg.WaitlistPosition = 0
			reg.HoldsSlot = false
		} else {
			status, pos := Placement(ev.RegistrationsCount, ev.SlotsAvailable, ev.WaitlistCount)
			if status == models.RegistrationStatusConfirmed {
				team.Status = models.TeamStatusConfirmed
				reg.Status = models.RegistrationStatusConfirmed
				ev.RegistrationsCount++
			} else {
				team.Status = models.TeamStatusWaitlist
				reg.Status = models.RegistrationStatusWaitlist
				reg.WaitlistPosition = pos
				ev.WaitlistCount++
			}
			tx.Update(ev, ev.Version)
		}
		reg.PartnerStatus = models.PartnerStatusConfirmed
		reg.LookingForPartner = false
		tx.Update(team, team.Version)
		tx.Update(reg, reg.Version)

		// The sealed team supersedes any solo seat the acceptor still held.
		for i := range regs {
			r := &regs[i]
			if r.ID == reg.ID || !r.Live() || r.PlayerID != acceptorID || r.TeamID != "" {
				continue
			}
			fresh, err := s.Store.GetRegistration(ctx, r.ID)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if fresh.Live() && fresh.TeamID == "" {
				tx.Delete(fresh, fresh.Version)
			}
		}

		// Orphan cascade over the acceptor's other pending invites.
		for i := range teams {
			t := &teams[i]
			if t.ID == team.ID || t.Status != models.TeamStatusPending {
				continue
			}
			if !t.HasMember(acceptorID) || t.ConfirmedBy(acceptorID) {
				continue
			}
			if err := s.dissolveOrphanTeam(ctx, tx, &outbox, ev, t.ID, acceptorID); err != nil {
				return err
			}
		}

		if err := s.markNotificationRead(ctx, tx, notificationID); err != nil {
			return err
		}
		s.appendNotification(tx, &outbox, other, models.NotificationInviteAccepted,
			"Invite accepted",
			fmt.Sprintf("%s accepted your invite for %s.", acceptorID, ev.Title),
			ev.ID, team.ID)

		if err := s.Store.Commit(ctx, tx); err != nil {
			return err
		}
		result = team
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.pushOutbox(outbox)
	return result, nil
}

// DissolveTeam ends a pairing: decline (invited side, pending), cancel
// (inviter, pending) or leave (either side, any team state). The team record
// is always deleted; the seat disposition depends on who acts and what the
// team held.
func (s *RosterService) DissolveTeam(ctx context.Context, actorID, teamID, action, notificationID string) error {
	switch action {
	case models.DissolveActionDecline, models.DissolveActionCancel, models.DissolveActionLeave:
	default:
		return precondition(ErrCodeInvalidAction, "unknown dissolve action %q", action)
	}

	var outbox []models.Notification

	err := runTxn(ctx, "dissolveTeam", func(ctx context.Context) error {
		outbox = outbox[:0]

		team, err := s.Store.GetTeam(ctx, teamID)
		if errors.Is(err, ErrNotFound) {
			return s.commitNotificationRead(ctx, notificationID) // already dissolved, benign
		}
		if err != nil {
			return err
		}
		if !team.HasMember(actorID) {
			return precondition(ErrCodeNotTeamMember, "user %s is not part of this team", actorID)
		}

		ev, err := s.fetchEvent(ctx, team.EventID)
		if err != nil {
			return err
		}
		origRegCount, origWaitCount := ev.RegistrationsCount, ev.WaitlistCount

		var reg *models.Registration
		if team.RegistrationID != "" {
			reg, err = s.Store.GetRegistration(ctx, team.RegistrationID)
			if errors.Is(err, ErrNotFound) {
				reg = nil
			} else if err != nil {
				return err
			}
		}

		pending := team.Status == models.TeamStatusPending
		actorConfirmed := team.ConfirmedBy(actorID)
		other := team.OtherMember(actorID)

		tx := &Tx{}
		tx.Delete(team, team.Version)

		switch {
		case action == models.DissolveActionDecline,
			action == models.DissolveActionLeave && pending && !actorConfirmed:
			if !pending {
				return precondition(ErrCodeInvalidAction, "only a pending invite can be declined")
			}
			if actorConfirmed {
				return precondition(ErrCodeInvalidAction, "the inviter cannot decline their own invite; cancel it instead")
			}
			if reg != nil {
				if reg.PlayerID == actorID {
					// MERGE_P1: the decliner keeps their own seat, reopened.
					revertToOpen(reg, models.PartnerStatusNone)
				} else {
					revertToOpen(reg, models.PartnerStatusDenied)
				}
				tx.Update(reg, reg.Version)
			}
			s.appendNotification(tx, &outbox, other, models.NotificationInviteDeclined,
				"Invite declined",
				fmt.Sprintf("%s declined your invite for %s.", actorID, ev.Title),
				ev.ID, "")

		case action == models.DissolveActionCancel:
			if !pending {
				return precondition(ErrCodeInvalidAction, "only a pending invite can be cancelled")
			}
			if !actorConfirmed {
				return precondition(ErrCodeInvalidAction, "only the inviter can cancel the invite")
			}
			if reg != nil {
				revertToOpen(reg, models.PartnerStatusNone)
				tx.Update(reg, reg.Version)
			}
			s.appendNotification(tx, &outbox, other, models.NotificationInviteCancelled,
				"Invite cancelled",
				fmt.Sprintf("%s withdrew the team invite for %s.", actorID, ev.Title),
				ev.ID, "")

		case pending:
			// Leave by the confirmed side of a pending team. The invited
			// side survives with whatever seat makes sense.
			survivor := other
			regs, err := s.Store.RegistrationsByEvent(ctx, ev.ID)
			if err != nil {
				return err
			}
			var survivorOwn *models.Registration
			for i := range regs {
				r := &regs[i]
				if r.Live() && r.PlayerID == survivor && r.Status == models.RegistrationStatusConfirmed &&
					(reg == nil || r.ID != reg.ID) {
					survivorOwn = r
					break
				}
			}
			if survivorOwn != nil {
				// The survivor already holds an independent seat: reopen it
				// and drop the abandoned pairing vehicle.
				fresh, err := s.Store.GetRegistration(ctx, survivorOwn.ID)
				if err == nil {
					revertToOpen(fresh, models.PartnerStatusNone)
					tx.Update(fresh, fresh.Version)
				} else if !errors.Is(err, ErrNotFound) {
					return err
				}
				if reg != nil {
					tx.Delete(reg, reg.Version)
					// Dropping a counted survivor seat frees capacity.
					if reg.HoldsSlot {
						if err := s.releaseConfirmedTeamSeat(ctx, tx, ev, &outbox, team.ID); err != nil {
							return err
						}
					}
				}
			} else if reg != nil {
				// Promote the survivor into the shared registration in
				// place, preserving the seat's identity.
				reg.PlayerID = survivor
				revertToOpen(reg, models.PartnerStatusNone)
				tx.Update(reg, reg.Version)
			}
			s.appendNotification(tx, &outbox, survivor, models.NotificationPartnerLeft,
				"Invite withdrawn",
				fmt.Sprintf("%s left your pending team for %s.", actorID, ev.Title),
				ev.ID, "")

		default:
			// Leave on a sealed team.
			survivor := other
			switch team.Status {
			case models.TeamStatusConfirmed:
				// The seat stays occupied by the survivor alone; counters do
				// not move and nobody is promoted off the waitlist. The seat
				// keeps counting until the survivor withdraws or re-pairs.
				if reg != nil {
					reg.PlayerID = survivor
					revertToOpen(reg, models.PartnerStatusNone)
					reg.HoldsSlot = true
					tx.Update(reg, reg.Version)
				}
				s.appendNotification(tx, &outbox, survivor, models.NotificationPartnerLeft,
					"Your partner left",
					fmt.Sprintf("%s left your team for %s. The spot is yours and you are open for a new partner.", actorID, ev.Title),
					ev.ID, "")
			case models.TeamStatusWaitlist:
				// A waitlisted pairing dissolves outright: the spot is
				// released, nobody is promoted, the survivor keeps no seat.
				if reg != nil {
					tx.Delete(reg, reg.Version)
				}
				ev.WaitlistCount--
				s.appendNotification(tx, &outbox, survivor, models.NotificationPartnerLeft,
					"Your partner left",
					fmt.Sprintf("%s left your team for %s and your waitlist spot was released.", actorID, ev.Title),
					ev.ID, "")
			}
		}

		if err := s.markNotificationRead(ctx, tx, notificationID); err != nil {
			return err
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

// commitNotificationRead is the benign-race path: the record the action
// referred to is gone, so only the triggering notification is consumed.
func (s *RosterService) commitNotificationRead(ctx context.Context, notificationID string) error {
	tx := &Tx{}
	if err := s.markNotificationRead(ctx, tx, notificationID); err != nil {
		return err
	}
	return s.Store.Commit(ctx, tx)
}

// dissolveStaleTeam removes a pending team whose inviter has since sealed a
// different pairing. A pending pairing vehicle is deleted outright; a real
// seat owned by the acceptor is reopened; a seat owned by the member who
// sealed elsewhere is deleted, since their sealed team supersedes it.
func (s *RosterService) dissolveStaleTeam(ctx context.Context, ev *models.Event, team *models.Team, acceptorID, notificationID string) error {
	var outbox []models.Notification
	origRegCount, origWaitCount := ev.RegistrationsCount, ev.WaitlistCount

	tx := &Tx{}
	tx.Delete(team, team.Version)

	reg, err := s.Store.GetRegistration(ctx, team.RegistrationID)
	if err == nil {
		switch {
		case reg.Status == models.RegistrationStatusPending:
			tx.Delete(reg, reg.Version)
		case reg.PlayerID == acceptorID:
			revertToOpen(reg, models.PartnerStatusNone)
			tx.Update(reg, reg.Version)
		default:
			tx.Delete(reg, reg.Version)
			if reg.HoldsSlot {
				if err := s.releaseConfirmedTeamSeat(ctx, tx, ev, &outbox, team.ID); err != nil {
					return err
				}
			}
		}
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := s.markNotificationRead(ctx, tx, notificationID); err != nil {
		return err
	}
	if ev.RegistrationsCount != origRegCount || ev.WaitlistCount != origWaitCount {
		tx.Update(ev, ev.Version)
	}
	if err := s.Store.Commit(ctx, tx); err != nil {
		return err
	}
	s.pushOutbox(outbox)
	return precondition(ErrCodeInviteRevoked, "this invite is no longer available; the inviter joined another team")
}

// dissolveOrphanTeam dissolves one of the acceptor's other pending invites
// inside the sealing commit. The would-be partner keeps an open seat where
// one existed and is told the acceptor joined another team.
func (s *RosterService) dissolveOrphanTeam(ctx context.Context, tx *Tx, outbox *[]models.Notification, ev *models.Event, teamID, acceptorID string) error {
	t, err := s.Store.GetTeam(ctx, teamID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if t.Status != models.TeamStatusPending {
		return ErrTxConflict // resolved concurrently, re-run the whole accept
	}
	tx.Delete(t, t.Version)

	partner := t.OtherMember(acceptorID)

	reg, err := s.Store.GetRegistration(ctx, t.RegistrationID)
	if errors.Is(err, ErrNotFound) {
		reg = nil
	} else if err != nil {
		return err
	}
	if reg != nil {
		// A seat the acceptor owned passes to the would-be partner; the
		// acceptor's sealed team supersedes it.
		if reg.PlayerID == acceptorID {
			reg.PlayerID = partner
		}
		revertToOpen(reg, models.PartnerStatusNone)
		tx.Update(reg, reg.Version)
	}

	if partner != "" {
		s.appendNotification(tx, outbox, partner, models.NotificationPartnerJoined,
			"Invite no longer available",
			fmt.Sprintf("%s joined another team for %s.", acceptorID, ev.Title),
			ev.ID, "")
	}
	return nil
}

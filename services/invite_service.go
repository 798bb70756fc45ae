package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"courtside_server/models"
)

// inviteMode classifies how an invite attaches to the existing roster.
type inviteMode int

const (
	inviteFresh   inviteMode = iota // neither side has a usable seat: new team + new pending registration
	inviteFillP2                    // inviter's open seat gains the invitee as tentative partner
	inviteMergeP1                   // invitee's free-agent seat is repurposed; inviter joins as secondary
	inviteMergeP2                   // invitee already sits tentatively on an open seat; inviter takes it over as primary
)

func (m inviteMode) String() string {
	switch m {
	case inviteFillP2:
		return "FILL_P2"
	case inviteMergeP1:
		return "MERGE_P1"
	case inviteMergeP2:
		return "MERGE_P2"
	}
	return "FRESH"
}

// inviteClassification is the immutable outcome of the pre-fetch probe,
// carried into the commit phase. Only ids are captured; the commit phase
// re-reads everything it writes and verifies the shape still holds.
type inviteClassification struct {
	mode            inviteMode
	targetRegID     string // FILL_P2/MERGE_P1/MERGE_P2: the registration being reused
	displacedUserID string // MERGE_P2: former primary whose invite is superseded
	supersededRegID string // MERGE_*: inviter's leftover solo seat, deleted on commit
}

// SendInvite asks inviteeID to team up with inviterID for a teams-mode
// event. The invite always leaves the invitee as the side whose confirmation
// is still missing; they receive the notification and must act next.
func (s *RosterService) SendInvite(ctx context.Context, inviterID, eventID, inviteeID string) (*models.Team, error) {
	if inviterID == inviteeID {
		return nil, precondition(ErrCodeSelfInvite, "you cannot invite yourself")
	}

	var created *models.Team
	var outbox []models.Notification

	err := runTxn(ctx, "sendInvite", func(ctx context.Context) error {
		outbox = outbox[:0]

		ev, err := s.fetchEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if ev.Mode != models.EventModeTeams {
			return precondition(ErrCodeNotTeamEvent, "event %s does not take team registrations", eventID)
		}

		regs, err := s.Store.RegistrationsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		teams, err := s.Store.TeamsByEvent(ctx, eventID)
		if err != nil {
			return err
		}

		for i := range teams {
			t := &teams[i]
			if t.HasMember(inviteeID) && t.ConfirmedBy(inviteeID) {
				return precondition(ErrCodeInviteeUnavailable, "user %s is already committed to a team for this event", inviteeID)
			}
			if t.HasMember(inviterID) && t.ConfirmedBy(inviterID) && t.Status != models.TeamStatusPending {
				return precondition(ErrCodeInviterUnavailable, "user %s already holds a team seat for this event", inviterID)
			}
		}

		var inviteeReg, inviteeTentative, inviterOpen *models.Registration
		for i := range regs {
			r := &regs[i]
			if !r.Live() {
				continue
			}
			if r.PlayerID == inviterID && r.Status == models.RegistrationStatusConfirmed && !r.LookingForPartner {
				return precondition(ErrCodeInviterUnavailable, "user %s already holds a sealed seat for this event", inviterID)
			}
			if r.PlayerID == inviteeID {
				inviteeReg = r
			}
			if r.Player2ID == inviteeID && r.PartnerStatus == models.PartnerStatusPending && r.LookingForPartner && r.TeamID != "" {
				inviteeTentative = r
			}
			if r.PlayerID == inviterID && r.LookingForPartner && r.TeamID == "" {
				inviterOpen = r
			}
		}

		var cls inviteClassification
		switch {
		case inviteeReg != nil &&
			inviteeReg.Status == models.RegistrationStatusConfirmed &&
			inviteeReg.LookingForPartner && inviteeReg.TeamID == "":
			cls.mode = inviteMergeP1
			cls.targetRegID = inviteeReg.ID
			if inviterOpen != nil {
				cls.supersededRegID = inviterOpen.ID
			}
		case inviteeTentative != nil:
			cls.mode = inviteMergeP2
			cls.targetRegID = inviteeTentative.ID
			cls.displacedUserID = inviteeTentative.PlayerID
			if inviterOpen != nil {
				cls.supersededRegID = inviterOpen.ID
			}
		case inviteeReg == nil:
			if inviterOpen != nil {
				cls.mode = inviteFillP2
				cls.targetRegID = inviterOpen.ID
			} else {
				cls.mode = inviteFresh
			}
		default:
			return precondition(ErrCodeInviteeUnavailable, "user %s cannot be invited in their current state", inviteeID)
		}

		team, err := s.commitInvite(ctx, ev, cls, inviterID, inviteeID, &outbox)
		if err != nil {
			return err
		}
		created = team
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.pushOutbox(outbox)
	return created, nil
}

// commitInvite performs the commit phase for one classified invite: it
// re-reads the registrations it will touch, verifies the classification
// still holds, and lands the team, registration and notification writes in
// one transaction.
func (s *RosterService) commitInvite(ctx context.Context, ev *models.Event, cls inviteClassification, inviterID, inviteeID string, outbox *[]models.Notification) (*models.Team, error) {
	tx := &Tx{}
	now := nowStamp()
	team := &models.Team{
		ID:        uuid.NewString(),
		EventID:   ev.ID,
		Status:    models.TeamStatusPending,
		CreatedAt: now,
	}

	switch cls.mode {
	case inviteFresh:
		reg := &models.Registration{
			ID:            uuid.NewString(),
			EventID:       ev.ID,
			PlayerID:      inviterID,
			Player2ID:     inviteeID,
			Status:        models.RegistrationStatusPending,
			PartnerStatus: models.PartnerStatusPending,
			TeamID:        team.ID,
			CreatedAt:     now,
		}
		team.Player1ID, team.Player2ID = inviterID, inviteeID
		team.Player1Confirmed = true
		team.RegistrationID = reg.ID
		tx.Create(reg)

	case inviteFillP2:
		fresh, err := s.freshOpenSeat(ctx, cls.targetRegID, inviterID)
		if err != nil {
			return nil, err
		}
		team.Player1ID, team.Player2ID = inviterID, inviteeID
		team.Player1Confirmed = true
		team.RegistrationID = fresh.ID
		fresh.Player2ID = inviteeID
		fresh.PartnerStatus = models.PartnerStatusPending
		fresh.TeamID = team.ID
		tx.Update(fresh, fresh.Version)

	case inviteMergeP1:
		fresh, err := s.freshOpenSeat(ctx, cls.targetRegID, inviteeID)
		if err != nil {
			return nil, err
		}
		// The invitee stays primary on their own seat and is the side that
		// must accept.
		team.Player1ID, team.Player2ID = inviteeID, inviterID
		team.Player2Confirmed = true
		team.RegistrationID = fresh.ID
		fresh.Player2ID = inviterID
		fresh.PartnerStatus = models.PartnerStatusPending
		fresh.TeamID = team.ID
		tx.Update(fresh, fresh.Version)

	case inviteMergeP2:
		fresh, err := s.Store.GetRegistration(ctx, cls.targetRegID)
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTxConflict
		}
		if err != nil {
			return nil, err
		}
		if fresh.Player2ID != inviteeID || fresh.PartnerStatus != models.PartnerStatusPending || !fresh.LookingForPartner {
			return nil, ErrTxConflict
		}
		if fresh.TeamID != "" {
			oldTeam, err := s.Store.GetTeam(ctx, fresh.TeamID)
			if err == nil {
				tx.Delete(oldTeam, oldTeam.Version)
			} else if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
		team.Player1ID, team.Player2ID = inviterID, inviteeID
		team.Player1Confirmed = true
		team.RegistrationID = fresh.ID
		fresh.PlayerID = inviterID
		fresh.TeamID = team.ID
		tx.Update(fresh, fresh.Version)
		s.appendNotification(tx, outbox, cls.displacedUserID, models.NotificationInviteSuperseded,
			"Invite superseded",
			fmt.Sprintf("Another player took over your pending invite for %s.", ev.Title),
			ev.ID, "")
	}

	// The inviter's leftover solo seat is superseded by joining the
	// invitee's seat.
	if cls.supersededRegID != "" {
		solo, err := s.Store.GetRegistration(ctx, cls.supersededRegID)
		if err == nil && solo.Live() && solo.TeamID == "" && solo.PlayerID == inviterID {
			tx.Delete(solo, solo.Version)
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	tx.Create(team)
	s.appendNotification(tx, outbox, inviteeID, models.NotificationInviteReceived,
		"You have a team invite",
		fmt.Sprintf("%s invited you to team up for %s.", inviterID, ev.Title),
		ev.ID, team.ID)

	if err := s.Store.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return team, nil
}

// freshOpenSeat re-reads a free-agent registration during the commit phase
// and verifies it is still an open, unpaired, confirmed seat owned by
// ownerID. Anything else means the classification went stale.
func (s *RosterService) freshOpenSeat(ctx context.Context, regID, ownerID string) (*models.Registration, error) {
	fresh, err := s.Store.GetRegistration(ctx, regID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrTxConflict
	}
	if err != nil {
		return nil, err
	}
	if fresh.PlayerID != ownerID || fresh.Status != models.RegistrationStatusConfirmed ||
		!fresh.LookingForPartner || fresh.TeamID != "" {
		return nil, ErrTxConflict
	}
	return fresh, nil
}

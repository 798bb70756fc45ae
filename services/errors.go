package services

import "fmt"

// Stable reason codes surfaced to the caller on precondition violations.
const (
	ErrCodeSelfInvite           = "self_invite"
	ErrCodeNotTeamEvent         = "not_team_event"
	ErrCodeInviterUnavailable   = "inviter_unavailable"
	ErrCodeInviteeUnavailable   = "invitee_unavailable"
	ErrCodeAlreadyRegistered    = "already_registered"
	ErrCodeNotRegistrationOwner = "not_registration_owner"
	ErrCodeNotTeamMember        = "not_team_member"
	ErrCodeNotInviteTarget      = "not_invite_target"
	ErrCodeInvalidAction        = "invalid_action"
	ErrCodeInviteRevoked        = "invite_revoked"
	ErrCodeEventNotFound        = "event_not_found"
	ErrCodeInvalidEvent         = "invalid_event"
)

// PreconditionError rejects an operation whose preconditions do not hold.
// It is never retried.
type PreconditionError struct {
	Code    string
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

func precondition(code, format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ConflictError is returned when an operation kept colliding with concurrent
// writers after exhausting its retries. It is distinct from a precondition
// violation: the request was legal, it just kept losing races.
type ConflictError struct {
	Op string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s kept conflicting with concurrent updates, please try again", e.Op)
}

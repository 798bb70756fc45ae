package models

// ✅ Event modes
const (
	EventModePlayers = "players" // individual seats
	EventModeTeams   = "teams"   // paired seats
)

// ✅ Registration statuses
const (
	RegistrationStatusConfirmed = "confirmed"
	RegistrationStatusWaitlist  = "waitlist"
	RegistrationStatusPending   = "pending"
	RegistrationStatusCancelled = "cancelled"
)

// ✅ Partner statuses on a registration
const (
	PartnerStatusNone      = "none"
	PartnerStatusPending   = "pending"
	PartnerStatusConfirmed = "confirmed"
	PartnerStatusDenied    = "denied"
)

// ✅ Team statuses
const (
	TeamStatusPending   = "pending"
	TeamStatusConfirmed = "confirmed"
	TeamStatusWaitlist  = "waitlist"
)

// ✅ Dissolve actions
const (
	DissolveActionDecline = "decline" // invited side rejects a pending invite
	DissolveActionCancel  = "cancel"  // inviter withdraws a pending invite
	DissolveActionLeave   = "leave"   // either side leaves the pairing
)

// ✅ Notification types
const (
	NotificationInviteReceived   = "inviteReceived"
	NotificationInviteAccepted   = "inviteAccepted"
	NotificationInviteDeclined   = "inviteDeclined"
	NotificationInviteCancelled  = "inviteCancelled"
	NotificationInviteSuperseded = "inviteSuperseded"
	NotificationPartnerJoined    = "partnerJoinedElsewhere"
	NotificationPartnerLeft      = "partnerLeft"
	NotificationWaitlistPromoted = "waitlistPromoted"
)

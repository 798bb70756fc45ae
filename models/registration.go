package models

// Registration represents one occupied or requested seat in DynamoDB.
//
// PlayerID is the primary occupant. Player2ID, PartnerStatus and TeamID are
// only used in "teams" mode, where the registration is shared by a pair.
// WaitlistPosition is meaningful only while Status is "waitlist".
//
// HoldsSlot marks a teams-mode seat that counts against the event's
// registrationsCount while unpaired: the survivor of a confirmed-team leave
// keeps the counted seat alone. An ordinary free agent never holds a slot.
type Registration struct {
	ID                string `json:"id" dynamodbav:"id"`           // PK
	EventID           string `json:"eventId" dynamodbav:"eventId"` // GSI EventIndex PK
	PlayerID          string `json:"playerId" dynamodbav:"playerId"`
	Player2ID         string `json:"player2Id,omitempty" dynamodbav:"player2Id"`
	Status            string `json:"status" dynamodbav:"status"`               // "confirmed", "waitlist", "pending", "cancelled"
	PartnerStatus     string `json:"partnerStatus" dynamodbav:"partnerStatus"` // "none", "pending", "confirmed", "denied"
	TeamID            string `json:"teamId,omitempty" dynamodbav:"teamId"`
	LookingForPartner bool   `json:"lookingForPartner" dynamodbav:"lookingForPartner"`
	HoldsSlot         bool   `json:"holdsSlot,omitempty" dynamodbav:"holdsSlot"`
	WaitlistPosition  int    `json:"waitlistPosition,omitempty" dynamodbav:"waitlistPosition"`
	CreatedAt         string `json:"createdAt" dynamodbav:"createdAt"`
	Version           int64  `json:"version" dynamodbav:"version"`
}

// TableName returns the DynamoDB table name
func (Registration) TableName() string { return "Registrations" }

func (r *Registration) RecordID() string         { return r.ID }
func (r *Registration) RecordVersion() int64     { return r.Version }
func (r *Registration) SetRecordVersion(v int64) { r.Version = v }

// Live reports whether the registration still represents a seat or a
// pairing attempt (anything but cancelled).
func (r *Registration) Live() bool { return r.Status != RegistrationStatusCancelled }

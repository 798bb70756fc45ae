package models

// Event represents one bookable session in DynamoDB.
//
// RegistrationsCount and WaitlistCount are denormalized occupancy counters.
// In "players" mode they count Registrations, in "teams" mode they count
// Teams. Only the roster engine may mutate them.
type Event struct {
	ID                 string `json:"id" dynamodbav:"id"` // PK
	Title              string `json:"title" dynamodbav:"title"`
	Venue              string `json:"venue" dynamodbav:"venue"`
	OrganizerID        string `json:"organizerId" dynamodbav:"organizerId"`
	Mode               string `json:"mode" dynamodbav:"mode"` // "players" or "teams"
	SlotsAvailable     int    `json:"slotsAvailable" dynamodbav:"slotsAvailable"`
	RegistrationsCount int    `json:"registrationsCount" dynamodbav:"registrationsCount"`
	WaitlistCount      int    `json:"waitlistCount" dynamodbav:"waitlistCount"`
	StartTime          string `json:"startTime" dynamodbav:"startTime"`
	CreatedAt          string `json:"createdAt" dynamodbav:"createdAt"`
	Version            int64  `json:"version" dynamodbav:"version"` // optimistic concurrency stamp
}

// TableName returns the DynamoDB table name
func (Event) TableName() string { return "Events" }

func (e *Event) RecordID() string         { return e.ID }
func (e *Event) RecordVersion() int64     { return e.Version }
func (e *Event) SetRecordVersion(v int64) { e.Version = v }

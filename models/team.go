package models

// Team represents a pairing attempt or result between two users in DynamoDB.
//
// Invariant: Status "confirmed" or "waitlist" implies both confirmation
// flags are true; "pending" implies at least one is false. A team always
// references the shared Registration that carries its seat.
type Team struct {
	ID               string `json:"id" dynamodbav:"id"`           // PK
	EventID          string `json:"eventId" dynamodbav:"eventId"` // GSI EventIndex PK
	Player1ID        string `json:"player1Id" dynamodbav:"player1Id"`
	Player2ID        string `json:"player2Id" dynamodbav:"player2Id"`
	Player1Confirmed bool   `json:"player1Confirmed" dynamodbav:"player1Confirmed"`
	Player2Confirmed bool   `json:"player2Confirmed" dynamodbav:"player2Confirmed"`
	Status           string `json:"status" dynamodbav:"status"` // "pending", "confirmed", "waitlist"
	RegistrationID   string `json:"registrationId" dynamodbav:"registrationId"`
	CreatedAt        string `json:"createdAt" dynamodbav:"createdAt"`
	Version          int64  `json:"version" dynamodbav:"version"`
}

// TableName returns the DynamoDB table name
func (Team) TableName() string { return "Teams" }

func (t *Team) RecordID() string         { return t.ID }
func (t *Team) RecordVersion() int64     { return t.Version }
func (t *Team) SetRecordVersion(v int64) { t.Version = v }

// HasMember reports whether userID is one of the two players.
func (t *Team) HasMember(userID string) bool {
	return t.Player1ID == userID || t.Player2ID == userID
}

// ConfirmedBy reports whether userID has confirmed their side of the team.
func (t *Team) ConfirmedBy(userID string) bool {
	switch userID {
	case t.Player1ID:
		return t.Player1Confirmed
	case t.Player2ID:
		return t.Player2Confirmed
	}
	return false
}

// OtherMember returns the partner of userID, or "" if userID is not a member.
func (t *Team) OtherMember(userID string) string {
	switch userID {
	case t.Player1ID:
		return t.Player2ID
	case t.Player2ID:
		return t.Player1ID
	}
	return ""
}

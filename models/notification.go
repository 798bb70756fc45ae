package models

// Notification is a one-way message to a single user in DynamoDB. The
// roster engine only ever appends notifications; the single exception is
// marking the triggering notification read when an accept/decline consumes
// it.
type Notification struct {
	ID        string `json:"id" dynamodbav:"id"`               // PK
	UserID    string `json:"userId" dynamodbav:"userId"`       // GSI UserIndex PK
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"` // GSI UserIndex SK
	Type      string `json:"type" dynamodbav:"type"`
	Title     string `json:"title" dynamodbav:"title"`
	Message   string `json:"message" dynamodbav:"message"`
	EventID   string `json:"eventId" dynamodbav:"eventId"`
	TeamID    string `json:"teamId,omitempty" dynamodbav:"teamId"`
	Read      bool   `json:"read" dynamodbav:"read"`
	Version   int64  `json:"version" dynamodbav:"version"`
}

// TableName returns the DynamoDB table name
func (Notification) TableName() string { return "Notifications" }

func (n *Notification) RecordID() string         { return n.ID }
func (n *Notification) RecordVersion() int64     { return n.Version }
func (n *Notification) SetRecordVersion(v int64) { n.Version = v }

package model

import "time"

type MessageStatus string

const (
	StatusSent   MessageStatus = "sent"
	StatusFailed MessageStatus = "failed"
)

func (s MessageStatus) String() string {
	return string(s)
}

func (s MessageStatus) Valid() bool {
	return s == StatusSent || s == StatusFailed
}

// MessageLog is one single-send attempt, persisted in the ClickHouse messages table.
type MessageLog struct {
	ID          string        `db:"id"           json:"id"`
	To          string        `db:"phone"        json:"to"`
	Body        string        `db:"body"         json:"body"`
	Provider    string        `db:"provider"     json:"provider"`
	ProviderID  string        `db:"provider_id"  json:"providerId"`
	Status      MessageStatus `db:"status"       json:"status"` // sent|failed
	Error       string        `db:"error"        json:"error,omitempty"`
	BroadcastID string        `db:"broadcast_id" json:"broadcastId,omitempty"`
	CreatedAt   time.Time     `db:"created_at"   json:"createdAt"`
}

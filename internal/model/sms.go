package model

import "time"

// SendRequest is the input of the single-send path.
type SendRequest struct {
	To          string `json:"to"`
	Message     string `json:"message"`
	BroadcastID string `json:"broadcast_id,omitempty"`
}

// Receipt is what a provider hands back for an accepted message.
type Receipt struct {
	MessageID string    `json:"MessageId"`
	Provider  string    `json:"Provider"`
	To        string    `json:"To"`
	CreatedAt time.Time `json:"DateCreated"`
}

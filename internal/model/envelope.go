package model

// SendEnvelope is the payload published to Kafka for one recipient of a broadcast.
type SendEnvelope struct {
	ID          string `json:"id"` // ULID
	BroadcastID string `json:"broadcast_id,omitempty"`
	To          string `json:"to"`
	Message     string `json:"message"`
}

func (e SendEnvelope) Request() SendRequest {
	return SendRequest{To: e.To, Message: e.Message, BroadcastID: e.BroadcastID}
}

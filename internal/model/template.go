package model

import "time"

const DefaultTopic = "default"

// Template is a message body with {name} placeholders, keyed by (Topic, TemplateID).
type Template struct {
	Topic      string    `db:"topic"       json:"topic"`
	TemplateID string    `db:"template_id" json:"templateId"` // ULID
	Body       string    `db:"body"        json:"body"`
	CreatedAt  time.Time `db:"created_at"  json:"createdAt"`
}

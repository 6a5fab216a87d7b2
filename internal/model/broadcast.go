package model

import "time"

type OutcomeStatus string

const (
	OutcomeInvoked      OutcomeStatus = "invoked"
	OutcomeRenderFailed OutcomeStatus = "render_failed"
	OutcomeInvokeFailed OutcomeStatus = "invoke_failed"
)

func (s OutcomeStatus) String() string { return string(s) }

// Outcome is the per-recipient result of one broadcast.
type Outcome struct {
	Username    string        `json:"username"`
	PhoneNumber string        `json:"phoneNumber"`
	Status      OutcomeStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
}

// BroadcastReport summarizes one run of the joke broadcast.
type BroadcastReport struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	CountryCode string    `json:"countryCode"`
	TemplateID  string    `json:"templateId"`
	Joke        string    `json:"joke"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Outcomes    []Outcome `json:"outcomes"`
}

// Count returns how many outcomes have the given status.
func (r BroadcastReport) Count(st OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == st {
			n++
		}
	}
	return n
}

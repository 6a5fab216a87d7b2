package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmehdipour/jokecast/internal/model"
)

const telnyxDefaultBaseURL = "https://api.telnyx.com"

// TelnyxProvider sends through POST /v2/messages.
type TelnyxProvider struct {
	base
	apiKey string
}

func NewTelnyxProvider(opts Options) *TelnyxProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = telnyxDefaultBaseURL
	}
	return &TelnyxProvider{base: newBase(opts), apiKey: opts.Token}
}

type telnyxRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type telnyxResponse struct {
	Data struct {
		ID         string    `json:"id"`
		ReceivedAt time.Time `json:"received_at"`
	} `json:"data"`
}

func (p *TelnyxProvider) Send(ctx context.Context, msg Message) (model.Receipt, error) {
	rc, err := p.create(ctx, msg)
	p.track(err)
	return rc, err
}

func (p *TelnyxProvider) create(ctx context.Context, msg Message) (model.Receipt, error) {
	b, _ := json.Marshal(telnyxRequest{From: msg.From, To: msg.To, Text: msg.Body})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v2/messages", bytes.NewReader(b))
	if err != nil {
		return model.Receipt{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	var out telnyxResponse
	if err := p.do(req, &out); err != nil {
		return model.Receipt{}, err
	}

	created := out.Data.ReceivedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	return model.Receipt{MessageID: out.Data.ID, Provider: p.name, To: msg.To, CreatedAt: created}, nil
}

package messenger

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jmehdipour/jokecast/internal/model"
)

const twilioDefaultBaseURL = "https://api.twilio.com"

// TwilioProvider sends through the Twilio Messages REST resource.
type TwilioProvider struct {
	base
	accountSID string
	authToken  string
}

func NewTwilioProvider(opts Options) *TwilioProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = twilioDefaultBaseURL
	}
	return &TwilioProvider{base: newBase(opts), accountSID: opts.AccountID, authToken: opts.Token}
}

type twilioMessage struct {
	SID         string `json:"sid"`
	DateCreated string `json:"date_created"` // RFC 1123 with numeric zone
	Status      string `json:"status"`
}

func (p *TwilioProvider) Send(ctx context.Context, msg Message) (model.Receipt, error) {
	rc, err := p.create(ctx, msg)
	p.track(err)
	return rc, err
}

func (p *TwilioProvider) create(ctx context.Context, msg Message) (model.Receipt, error) {
	form := url.Values{}
	form.Set("From", msg.From)
	form.Set("To", msg.To)
	form.Set("Body", msg.Body)

	endpoint := p.baseURL + "/2010-04-01/Accounts/" + url.PathEscape(p.accountSID) + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return model.Receipt{}, err
	}
	req.SetBasicAuth(p.accountSID, p.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var out twilioMessage
	if err := p.do(req, &out); err != nil {
		return model.Receipt{}, err
	}

	created, err := time.Parse(time.RFC1123Z, out.DateCreated)
	if err != nil {
		created = time.Now().UTC()
	}

	return model.Receipt{MessageID: out.SID, Provider: p.name, To: msg.To, CreatedAt: created}, nil
}

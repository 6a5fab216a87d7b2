package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jmehdipour/jokecast/internal/model"
)

// Message is one outbound SMS.
type Message struct {
	From string
	To   string
	Body string
}

type Provider interface {
	Name() string
	Ready() bool
	Acquire() bool
	Send(ctx context.Context, msg Message) (model.Receipt, error)
}

// Options configures any provider kind.
type Options struct {
	Name          string
	Kind          string // twilio | telnyx | http
	BaseURL       string
	Path          string // http kind only
	AccountID     string // twilio account SID
	Token         string
	TimeoutMs     int
	FailThreshold int
	OpenForMs     int
}

// NewProvider builds the provider for opts.Kind.
func NewProvider(opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "twilio":
		if opts.AccountID == "" || opts.Token == "" {
			return nil, fmt.Errorf("provider %s: twilio needs account_id and token", opts.Name)
		}
		return NewTwilioProvider(opts), nil
	case "telnyx":
		if opts.Token == "" {
			return nil, fmt.Errorf("provider %s: telnyx needs token", opts.Name)
		}
		return NewTelnyxProvider(opts), nil
	case "", "http":
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("provider %s: http needs base_url", opts.Name)
		}
		return NewHTTPProvider(opts), nil
	default:
		return nil, fmt.Errorf("provider %s: unknown kind %q", opts.Name, opts.Kind)
	}
}

// base carries the HTTP client and breaker every provider kind shares.
type base struct {
	name    string
	baseURL string
	client  *http.Client
	br      *MicroBreaker
}

func newBase(opts Options) base {
	timeoutMs := opts.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 3000
	}

	failThreshold := opts.FailThreshold
	if failThreshold <= 0 {
		failThreshold = 3
	}

	openForMs := opts.OpenForMs
	if openForMs <= 0 {
		openForMs = 15000
	}

	return base{
		name:    opts.Name,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		br:      NewMicroBreaker(failThreshold, time.Duration(openForMs)*time.Millisecond),
	}
}

func (b *base) Name() string  { return b.name }
func (b *base) Ready() bool   { return b.br.Ready() }
func (b *base) Acquire() bool { return b.br.TryAcquire() }

func (b *base) track(err error) {
	if err != nil {
		b.br.OnFailure()
		return
	}
	b.br.OnSuccess()
}

// do executes req and decodes a 2xx JSON body into out.
func (b *base) do(req *http.Request, out any) error {
	res, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("provider=%s status=%d body=%s", b.name, res.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("provider=%s decode response: %w", b.name, err)
	}
	return nil
}

// HTTPProvider posts {from,to,body} as JSON and expects {id,created_at} back.
type HTTPProvider struct {
	base
	path string
}

func NewHTTPProvider(opts Options) *HTTPProvider {
	return &HTTPProvider{base: newBase(opts), path: opts.Path}
}

type httpSendReq struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type httpSendRes struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *HTTPProvider) Send(ctx context.Context, msg Message) (model.Receipt, error) {
	rc, err := p.post(ctx, msg)
	p.track(err)
	return rc, err
}

func (p *HTTPProvider) post(ctx context.Context, msg Message) (model.Receipt, error) {
	b, _ := json.Marshal(httpSendReq{From: msg.From, To: msg.To, Body: msg.Body})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+p.path, bytes.NewReader(b))
	if err != nil {
		return model.Receipt{}, err
	}

	req.Header.Set("Content-Type", "application/json")

	var out httpSendRes
	if err := p.do(req, &out); err != nil {
		return model.Receipt{}, err
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}

	return model.Receipt{MessageID: out.ID, Provider: p.name, To: msg.To, CreatedAt: out.CreatedAt}, nil
}

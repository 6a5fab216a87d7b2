package messenger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTwilioProviderSend(t *testing.T) {
	var gotPath, gotUser, gotPass, gotTo, gotFrom, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotTo, gotFrom, gotBody = r.PostForm.Get("To"), r.PostForm.Get("From"), r.PostForm.Get("Body")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123","date_created":"Thu, 30 Jul 2015 20:12:31 +0000","status":"queued"}`))
	}))
	defer srv.Close()

	p := NewTwilioProvider(Options{Name: "twilio", BaseURL: srv.URL, AccountID: "AC1", Token: "secret"})
	rc, err := p.Send(context.Background(), Message{From: "+15005550006", To: "+48500000000", Body: "hi"})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if gotPath != "/2010-04-01/Accounts/AC1/Messages.json" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotUser != "AC1" || gotPass != "secret" {
		t.Fatalf("unexpected basic auth %q:%q", gotUser, gotPass)
	}
	if gotTo != "+48500000000" || gotFrom != "+15005550006" || gotBody != "hi" {
		t.Fatalf("unexpected form To=%q From=%q Body=%q", gotTo, gotFrom, gotBody)
	}
	want := time.Date(2015, 7, 30, 20, 12, 31, 0, time.UTC)
	if rc.MessageID != "SM123" || rc.Provider != "twilio" || !rc.CreatedAt.Equal(want) {
		t.Fatalf("unexpected receipt %+v", rc)
	}
}

func TestTelnyxProviderSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/messages" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer KEY1" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req telnyxRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Text != "joke" || req.To != "+48500000000" {
			t.Errorf("unexpected request %+v", req)
		}
		_, _ = w.Write([]byte(`{"data":{"id":"tx-1","received_at":"2024-01-02T03:04:05Z"}}`))
	}))
	defer srv.Close()

	p := NewTelnyxProvider(Options{Name: "telnyx", BaseURL: srv.URL, Token: "KEY1"})
	rc, err := p.Send(context.Background(), Message{From: "+1555", To: "+48500000000", Body: "joke"})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if rc.MessageID != "tx-1" || rc.CreatedAt.Year() != 2024 {
		t.Fatalf("unexpected receipt %+v", rc)
	}
}

func TestHTTPProviderFailureOpensBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewHTTPProvider(Options{Name: "gw", BaseURL: srv.URL, Path: "/send", FailThreshold: 1, OpenForMs: 60000})
	_, err := p.Send(context.Background(), Message{To: "+48500000000", Body: "x"})
	if err == nil || !strings.Contains(err.Error(), "status=502") {
		t.Fatalf("expected status error, got %v", err)
	}
	if p.Ready() {
		t.Fatalf("expected breaker to be open after failure")
	}
}

func TestNewProviderValidation(t *testing.T) {
	tests := []struct {
		opts    Options
		wantErr bool
	}{
		{Options{Name: "a", Kind: "twilio"}, true},
		{Options{Name: "b", Kind: "twilio", AccountID: "AC", Token: "t"}, false},
		{Options{Name: "c", Kind: "telnyx"}, true},
		{Options{Name: "d", Kind: "http"}, true},
		{Options{Name: "e", Kind: "http", BaseURL: "http://x"}, false},
		{Options{Name: "f", Kind: "carrier-pigeon"}, true},
	}
	for _, tt := range tests {
		_, err := NewProvider(tt.opts)
		if (err != nil) != tt.wantErr {
			t.Fatalf("NewProvider(%+v) err=%v, wantErr=%v", tt.opts, err, tt.wantErr)
		}
	}
}

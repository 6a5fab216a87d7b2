package app

import (
	"context"
	"errors"
	"testing"

	"github.com/jmehdipour/jokecast/internal/config"
	"github.com/jmehdipour/jokecast/internal/joke"
	"go.uber.org/zap"
)

func TestNewMessenger_SkipsDisabled(t *testing.T) {
	_, err := NewMessenger(config.MessengerConfig{Providers: []config.ProviderConfig{
		{Name: "off", Kind: "http", BaseURL: "http://x", Enabled: false},
	}})
	if !errors.Is(err, ErrNoProviders) {
		t.Fatalf("err=%v", err)
	}

	m, err := NewMessenger(config.MessengerConfig{Providers: []config.ProviderConfig{
		{Name: "p1", Kind: "http", BaseURL: "http://x/", Enabled: true, TimeoutMs: 100},
	}})
	if err != nil || m == nil {
		t.Fatalf("m=%v err=%v", m, err)
	}
}

func TestNewMessenger_BadProvider(t *testing.T) {
	_, err := NewMessenger(config.MessengerConfig{Providers: []config.ProviderConfig{
		{Name: "tw", Kind: "twilio", Enabled: true},
	}})
	if err == nil {
		t.Fatalf("twilio without credentials should fail")
	}
}

func TestNewJokeSource(t *testing.T) {
	src, err := NewJokeSource(config.JokeConfig{Source: "static", Static: []string{"knock knock"}})
	if err != nil {
		t.Fatalf("static: %v", err)
	}
	got, err := src.RandomJoke(context.Background())
	if err != nil || got != "knock knock" {
		t.Fatalf("got=%q err=%v", got, err)
	}

	src, err = NewJokeSource(config.JokeConfig{URL: "http://jokes.local/random"})
	if err != nil {
		t.Fatalf("http: %v", err)
	}
	if _, ok := src.(*joke.HTTPSource); !ok {
		t.Fatalf("want *joke.HTTPSource, got %T", src)
	}

	if _, err := NewJokeSource(config.JokeConfig{Source: "http"}); err == nil {
		t.Fatalf("http without url should fail")
	}
	if _, err := NewJokeSource(config.JokeConfig{Source: "ftp"}); err == nil {
		t.Fatalf("unknown source should fail")
	}
}

func TestNewInvoker(t *testing.T) {
	cfg := config.Config{}
	cfg.Broadcast.Invoker = "kafka"
	cfg.Kafka.Brokers = []string{"127.0.0.1:9092"}
	cfg.Kafka.Topic = "sms.send"

	inv, err := NewInvoker(cfg, &Stores{}, zap.NewNop())
	if err != nil {
		t.Fatalf("kafka invoker: %v", err)
	}
	inv.Close()

	cfg.Kafka.Topic = ""
	if _, err := NewInvoker(cfg, &Stores{}, zap.NewNop()); err == nil {
		t.Fatalf("kafka invoker without topic should fail")
	}

	cfg.Broadcast.Invoker = "pigeon"
	if _, err := NewInvoker(cfg, &Stores{}, zap.NewNop()); err == nil {
		t.Fatalf("unknown invoker should fail")
	}

	cfg.Broadcast.Invoker = "local"
	if _, err := NewInvoker(cfg, &Stores{}, zap.NewNop()); !errors.Is(err, ErrNoProviders) {
		t.Fatalf("local invoker without providers: %v", err)
	}
}

func TestStores_OptionalRepos(t *testing.T) {
	s := &Stores{}
	if s.Messages() != nil {
		t.Fatalf("messages repo without clickhouse")
	}
	if s.Reports(config.RedisConfig{}) != nil {
		t.Fatalf("reports repo without redis")
	}
	s.Close()
}

package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestNewValidation(t *testing.T) {
	noop := func(context.Context) {}

	if _, err := New("not a cron", "", noop, nil); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := New("0 9 * * *", "Mars/Olympus", noop, nil); err == nil {
		t.Fatalf("expected timezone error")
	}
	if _, err := New("@daily", "UTC", noop, nil); err != nil {
		t.Fatalf("descriptor rejected: %v", err)
	}
}

func TestNextHonoursTimezone(t *testing.T) {
	s, err := New("0 9 * * *", "UTC", func(context.Context) {}, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	from := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	want := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	if got := s.Next(from); !got.Equal(want) {
		t.Fatalf("Next(%s) = %s, want %s", from, got, want)
	}
}

func TestStartStop(t *testing.T) {
	s, err := New("@hourly", "UTC", func(context.Context) {}, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("second Start() error: %v", err)
	}
	s.Stop()
	s.Stop()
}

package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmehdipour/jokecast/internal/util"
)

type fakeUsers struct {
	puts []model.User
	err  error
}

func (f *fakeUsers) Put(ctx context.Context, u model.User) error {
	f.puts = append(f.puts, u)
	return f.err
}

type fakeTemplates struct {
	puts []model.Template
}

func (f *fakeTemplates) Put(ctx context.Context, t model.Template) error {
	f.puts = append(f.puts, t)
	return nil
}

func TestAddUserNormalizesPhone(t *testing.T) {
	users := &fakeUsers{}
	s := New(users, &fakeTemplates{}, "+48")

	u, err := s.AddUser(context.Background(), " Ann ", "532390966")
	if err != nil {
		t.Fatalf("AddUser() error: %v", err)
	}
	if u.CountryCode != "+48" || u.PhoneNumber != "+48532390966" || u.Username != "Ann" {
		t.Fatalf("unexpected user %+v", u)
	}
	if len(users.puts) != 1 || users.puts[0] != u {
		t.Fatalf("user not stored: %+v", users.puts)
	}
	if u.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
}

func TestAddUserErrors(t *testing.T) {
	users := &fakeUsers{}
	s := New(users, &fakeTemplates{}, "+48")

	if _, err := s.AddUser(context.Background(), "", "+48532390966"); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
	if _, err := s.AddUser(context.Background(), "Ann", "not-a-number"); !errors.Is(err, util.ErrInvalidPhoneNumber) {
		t.Fatalf("expected ErrInvalidPhoneNumber, got %v", err)
	}
	if len(users.puts) != 0 {
		t.Fatalf("invalid users were stored: %+v", users.puts)
	}

	boom := errors.New("store down")
	s = New(&fakeUsers{err: boom}, &fakeTemplates{}, "+48")
	if _, err := s.AddUser(context.Background(), "Ann", "+48532390966"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestAddTemplate(t *testing.T) {
	tpls := &fakeTemplates{}
	s := New(&fakeUsers{}, tpls, "+48")

	tpl, err := s.AddTemplate(context.Background(), "", "Hello {username}! Joke: {joke}")
	if err != nil {
		t.Fatalf("AddTemplate() error: %v", err)
	}
	if tpl.Topic != model.DefaultTopic || len(tpl.TemplateID) != 26 {
		t.Fatalf("unexpected template %+v", tpl)
	}
	if len(tpls.puts) != 1 || tpls.puts[0].Body != "Hello {username}! Joke: {joke}" {
		t.Fatalf("template not stored: %+v", tpls.puts)
	}
}

func TestAddTemplateValidation(t *testing.T) {
	tpls := &fakeTemplates{}
	s := New(&fakeUsers{}, tpls, "+48")

	if _, err := s.AddTemplate(context.Background(), "default", "   "); !errors.Is(err, ErrEmptyTemplate) {
		t.Fatalf("expected ErrEmptyTemplate, got %v", err)
	}
	if _, err := s.AddTemplate(context.Background(), "default", "Hi {name}"); !errors.Is(err, ErrUnknownPlaceholder) {
		t.Fatalf("expected ErrUnknownPlaceholder, got %v", err)
	}
	for _, body := range []string{"{{unknown}}", "{x {nickname}", "Hi {{name}}, {joke}"} {
		if _, err := s.AddTemplate(context.Background(), "default", body); !errors.Is(err, ErrUnknownPlaceholder) {
			t.Fatalf("AddTemplate(%q): expected ErrUnknownPlaceholder, got %v", body, err)
		}
	}
	if _, err := s.AddTemplate(context.Background(), "morning", "No placeholders, {not one}"); err != nil {
		t.Fatalf("plain template rejected: %v", err)
	}
	if len(tpls.puts) != 1 || tpls.puts[0].Topic != "morning" {
		t.Fatalf("unexpected stored templates: %+v", tpls.puts)
	}
}

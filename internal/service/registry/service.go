package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmehdipour/jokecast/internal/interpolate"
	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmehdipour/jokecast/internal/util"
)

var (
	ErrInvalidUser        = errors.New("invalid user")
	ErrEmptyTemplate      = errors.New("empty template")
	ErrUnknownPlaceholder = errors.New("unknown placeholder")
)

// Placeholders a broadcast template may use.
var AllowedPlaceholders = []string{"username", "joke"}

type UserStore interface {
	Put(ctx context.Context, u model.User) error
}

type TemplateStore interface {
	Put(ctx context.Context, t model.Template) error
}

// Service registers recipients and templates in the record store.
type Service struct {
	users          UserStore
	templates      TemplateStore
	defaultCountry string
	now            func() time.Time
}

func New(users UserStore, templates TemplateStore, defaultCountry string) *Service {
	return &Service{
		users:          users,
		templates:      templates,
		defaultCountry: defaultCountry,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// AddUser normalizes the number and upserts the user under its country code.
func (s *Service) AddUser(ctx context.Context, username, rawPhone string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.User{}, fmt.Errorf("%w: username is required", ErrInvalidUser)
	}

	phone, err := util.NormalizePhone(rawPhone, s.defaultCountry)
	if err != nil {
		return model.User{}, err
	}

	u := model.User{
		CountryCode: phone.CountryCode,
		PhoneNumber: phone.E164,
		Username:    username,
		CreatedAt:   s.now(),
	}
	if err := s.users.Put(ctx, u); err != nil {
		return model.User{}, fmt.Errorf("put user: %w", err)
	}
	return u, nil
}

// AddTemplate stores body under topic (default topic when empty) with a fresh ULID.
func (s *Service) AddTemplate(ctx context.Context, topic, body string) (model.Template, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = model.DefaultTopic
	}
	if strings.TrimSpace(body) == "" {
		return model.Template{}, ErrEmptyTemplate
	}
	if err := checkPlaceholders(body); err != nil {
		return model.Template{}, err
	}

	t := model.Template{
		Topic:      topic,
		TemplateID: util.New(),
		Body:       body,
		CreatedAt:  s.now(),
	}
	if err := s.templates.Put(ctx, t); err != nil {
		return model.Template{}, fmt.Errorf("put template: %w", err)
	}
	return t, nil
}

func checkPlaceholders(body string) error {
	for _, name := range interpolate.Placeholders(body) {
		known := false
		for _, allowed := range AllowedPlaceholders {
			if name == allowed {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: {%s}", ErrUnknownPlaceholder, name)
		}
	}
	return nil
}

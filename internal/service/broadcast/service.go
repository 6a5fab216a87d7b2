package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmehdipour/jokecast/internal/interpolate"
	"github.com/jmehdipour/jokecast/internal/joke"
	"github.com/jmehdipour/jokecast/internal/metrics"
	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmehdipour/jokecast/internal/util"
	"go.uber.org/zap"
)

var (
	ErrNoTemplateConfigured = errors.New("no template configured")
	ErrJokeUnavailable      = errors.New("joke unavailable")
)

type UserQuerier interface {
	QueryByCountry(ctx context.Context, countryCode string) ([]model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
}

type TemplateGetter interface {
	BatchGet(ctx context.Context, topics []string) (map[string][]model.Template, error)
}

type ReportStore interface {
	Save(ctx context.Context, r model.BroadcastReport) error
}

type Config struct {
	CountryCode   string // empty = all countries
	Topic         string
	FetchTimeout  time.Duration
	InvokeTimeout time.Duration
}

// Service renders the topic template for every user with one shared joke and
// hands each message to the single-send path through an Invoker.
type Service struct {
	cfg       Config
	users     UserQuerier
	templates TemplateGetter
	jokes     joke.Source
	invoker   Invoker
	reports   ReportStore
	log       *zap.Logger
}

// New builds the dispatcher; reports may be nil.
func New(cfg Config, users UserQuerier, templates TemplateGetter, jokes joke.Source, invoker Invoker, reports ReportStore, log *zap.Logger) *Service {
	if cfg.Topic == "" {
		cfg.Topic = model.DefaultTopic
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.InvokeTimeout <= 0 {
		cfg.InvokeTimeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		users:     users,
		templates: templates,
		jokes:     jokes,
		invoker:   invoker,
		reports:   reports,
		log:       log,
	}
}

// Run performs one broadcast. A missing template or joke aborts before any
// send; per-recipient failures only show up in the report outcomes.
func (s *Service) Run(ctx context.Context) (model.BroadcastReport, error) {
	rep := model.BroadcastReport{
		ID:          util.New(),
		Topic:       s.cfg.Topic,
		CountryCode: s.cfg.CountryCode,
		StartedAt:   time.Now().UTC(),
		Outcomes:    []model.Outcome{},
	}
	log := s.log.With(zap.String("broadcast_id", rep.ID))

	users, err := s.fetchUsers(ctx)
	if err != nil {
		metrics.BroadcastsTotal.WithLabelValues("store_failed").Inc()
		log.Error("fetch users failed", zap.Error(err))
		return rep, err
	}

	tpl, err := s.selectTemplate(ctx)
	if err != nil {
		if errors.Is(err, ErrNoTemplateConfigured) {
			metrics.BroadcastsTotal.WithLabelValues("no_template").Inc()
		} else {
			metrics.BroadcastsTotal.WithLabelValues("store_failed").Inc()
		}
		log.Error("select template failed", zap.String("topic", s.cfg.Topic), zap.Error(err))
		return rep, err
	}
	rep.TemplateID = tpl.TemplateID

	text, err := s.fetchJoke(ctx)
	if err != nil {
		metrics.BroadcastsTotal.WithLabelValues("joke_failed").Inc()
		log.Error("fetch joke failed", zap.Error(err))
		return rep, err
	}
	rep.Joke = text

	rep.Outcomes = s.dispatch(ctx, log, rep.ID, tpl, text, users)
	rep.FinishedAt = time.Now().UTC()

	for _, o := range rep.Outcomes {
		metrics.BroadcastOutcomesTotal.WithLabelValues(o.Status.String()).Inc()
	}
	metrics.BroadcastsTotal.WithLabelValues("ok").Inc()

	log.Info("broadcast finished",
		zap.String("template_id", tpl.TemplateID),
		zap.Int("recipients", len(users)),
		zap.Int("invoked", rep.Count(model.OutcomeInvoked)),
		zap.Int("render_failed", rep.Count(model.OutcomeRenderFailed)),
		zap.Int("invoke_failed", rep.Count(model.OutcomeInvokeFailed)))

	if s.reports != nil {
		if err := s.reports.Save(ctx, rep); err != nil {
			log.Warn("save broadcast report failed", zap.Error(err))
		}
	}

	return rep, nil
}

func (s *Service) fetchUsers(ctx context.Context) ([]model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	var (
		users []model.User
		err   error
	)
	if s.cfg.CountryCode == "" {
		users, err = s.users.ListAll(ctx)
	} else {
		users, err = s.users.QueryByCountry(ctx, s.cfg.CountryCode)
	}
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return users, nil
}

// selectTemplate takes the first template of the topic; the store orders them by id.
func (s *Service) selectTemplate(ctx context.Context) (model.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	found, err := s.templates.BatchGet(ctx, []string{s.cfg.Topic})
	if err != nil {
		return model.Template{}, fmt.Errorf("get templates: %w", err)
	}
	tpls := found[s.cfg.Topic]
	if len(tpls) == 0 {
		return model.Template{}, fmt.Errorf("%w: topic %q", ErrNoTemplateConfigured, s.cfg.Topic)
	}
	return tpls[0], nil
}

func (s *Service) fetchJoke(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	text, err := s.jokes.RandomJoke(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrJokeUnavailable, err)
	}
	return text, nil
}

// dispatch renders and invokes every recipient independently. outcomes[i]
// belongs to users[i].
func (s *Service) dispatch(ctx context.Context, log *zap.Logger, broadcastID string, tpl model.Template, text string, users []model.User) []model.Outcome {
	outcomes := make([]model.Outcome, len(users))

	var wg sync.WaitGroup
	for i, u := range users {
		outcomes[i] = model.Outcome{Username: u.Username, PhoneNumber: u.PhoneNumber}

		body, err := interpolate.Render(tpl.Body, map[string]string{
			"username": u.Username,
			"joke":     text,
		})
		if err != nil {
			outcomes[i].Status = model.OutcomeRenderFailed
			outcomes[i].Error = err.Error()
			log.Warn("render failed, skipping recipient",
				zap.String("to", u.PhoneNumber),
				zap.String("template_id", tpl.TemplateID),
				zap.Error(err))
			continue
		}

		env := model.SendEnvelope{
			ID:          util.New(),
			BroadcastID: broadcastID,
			To:          u.PhoneNumber,
			Message:     body,
		}

		wg.Add(1)
		go func(o *model.Outcome, env model.SendEnvelope) {
			defer wg.Done()

			ictx, cancel := context.WithTimeout(ctx, s.cfg.InvokeTimeout)
			defer cancel()

			if err := s.invoker.Invoke(ictx, env); err != nil {
				o.Status = model.OutcomeInvokeFailed
				o.Error = err.Error()
				log.Error("invoke send failed", zap.String("to", env.To), zap.Error(err))
				return
			}
			o.Status = model.OutcomeInvoked
		}(&outcomes[i], env)
	}
	wg.Wait()

	return outcomes
}

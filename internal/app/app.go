// Package app wires config into the stores and services every command shares.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmehdipour/jokecast/internal/config"
	"github.com/jmehdipour/jokecast/internal/db"
	"github.com/jmehdipour/jokecast/internal/joke"
	"github.com/jmehdipour/jokecast/internal/kafka"
	"github.com/jmehdipour/jokecast/internal/logger"
	"github.com/jmehdipour/jokecast/internal/messenger"
	"github.com/jmehdipour/jokecast/internal/repository"
	"github.com/jmehdipour/jokecast/internal/service/broadcast"
	"github.com/jmehdipour/jokecast/internal/service/registry"
	"github.com/jmehdipour/jokecast/internal/service/sender"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	InvokerKafka = "kafka"
	InvokerLocal = "local"
)

var ErrNoProviders = errors.New("no providers enabled in config")

// Bootstrap loads config and builds the process logger.
func Bootstrap(cfgPath string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

// Stores holds the open connections. ClickHouse and Redis are nil when not configured.
type Stores struct {
	MySQL      *sqlx.DB
	ClickHouse *sqlx.DB
	Redis      *redis.Client
}

func OpenStores(cfg config.Config) (*Stores, error) {
	s := &Stores{}

	mysqlDB, err := db.OpenMySQL(cfg.MySQL)
	if err != nil {
		return nil, err
	}
	s.MySQL = mysqlDB

	if cfg.ClickHouse.DSN != "" {
		chDB, err := db.OpenClickHouse(cfg.ClickHouse)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.ClickHouse = chDB
	}

	if cfg.Redis.Addr != "" {
		rdb, err := db.OpenRedis(cfg.Redis)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Redis = rdb
	}

	return s, nil
}

func (s *Stores) Close() {
	if s.MySQL != nil {
		_ = s.MySQL.Close()
	}
	if s.ClickHouse != nil {
		_ = s.ClickHouse.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
}

// Messages returns the ClickHouse message log, or nil without ClickHouse.
func (s *Stores) Messages() repository.CHMessagesRepository {
	if s.ClickHouse == nil {
		return nil
	}
	return repository.NewCHMessagesRepository(s.ClickHouse)
}

// Reports returns the Redis report store, or nil without Redis.
func (s *Stores) Reports(cfg config.RedisConfig) repository.BroadcastReportsRepository {
	if s.Redis == nil {
		return nil
	}
	return repository.NewBroadcastReportsRepository(s.Redis, cfg.ReportTTL)
}

// NewMessenger builds one provider per enabled entry.
func NewMessenger(c config.MessengerConfig) (*messenger.Messenger, error) {
	var provs []messenger.Provider
	for _, pc := range c.Providers {
		if !pc.Enabled {
			continue
		}
		p, err := messenger.NewProvider(messenger.Options{
			Name:          pc.Name,
			Kind:          pc.Kind,
			BaseURL:       strings.TrimRight(pc.BaseURL, "/"),
			Path:          pc.Path,
			AccountID:     pc.AccountID,
			Token:         pc.Token,
			TimeoutMs:     pc.TimeoutMs,
			FailThreshold: pc.Breaker.FailThreshold,
			OpenForMs:     pc.Breaker.OpenForMs,
		})
		if err != nil {
			return nil, err
		}
		provs = append(provs, p)
	}
	if len(provs) == 0 {
		return nil, ErrNoProviders
	}
	return messenger.New(provs), nil
}

func NewJokeSource(c config.JokeConfig) (joke.Source, error) {
	switch strings.ToLower(strings.TrimSpace(c.Source)) {
	case "static":
		return joke.NewStaticSource(c.Static), nil
	case "", "http":
		if c.URL == "" {
			return nil, errors.New("joke: http source needs url")
		}
		return joke.NewHTTPSource(c.URL, c.Field, c.Timeout), nil
	default:
		return nil, fmt.Errorf("joke: unknown source %q", c.Source)
	}
}

func NewRegistry(cfg config.Config, s *Stores) *registry.Service {
	return registry.New(
		repository.NewUsersRepository(s.MySQL),
		repository.NewTemplatesRepository(s.MySQL),
		cfg.Broadcast.CountryCode,
	)
}

func NewSender(cfg config.Config, s *Stores, log *zap.Logger) (*sender.Service, error) {
	m, err := NewMessenger(cfg.Messenger)
	if err != nil {
		return nil, err
	}
	var messages sender.MessageLog
	if repo := s.Messages(); repo != nil {
		messages = repo
	}
	return sender.New(m, messages, cfg.Messenger.From, cfg.Broadcast.CountryCode, log), nil
}

// Invoker is the configured broadcast hand-off. Close flushes the producer
// or waits for in-flight local sends.
type Invoker struct {
	broadcast.Invoker
	Close func()
}

// NewInvoker picks kafka or local by cfg.Broadcast.Invoker. The sender is
// built only for the local invoker.
func NewInvoker(cfg config.Config, s *Stores, log *zap.Logger) (*Invoker, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Broadcast.Invoker)) {
	case "", InvokerKafka:
		if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" {
			return nil, errors.New("kafka invoker needs brokers and topic")
		}
		p := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		return &Invoker{
			Invoker: broadcast.NewKafkaInvoker(p),
			Close:   func() { _ = p.Close() },
		}, nil
	case InvokerLocal:
		snd, err := NewSender(cfg, s, log)
		if err != nil {
			return nil, err
		}
		li := broadcast.NewLocalInvoker(snd, cfg.Worker.SendTimeout, log)
		return &Invoker{Invoker: li, Close: li.Wait}, nil
	default:
		return nil, fmt.Errorf("unknown invoker %q", cfg.Broadcast.Invoker)
	}
}

func NewBroadcaster(cfg config.Config, s *Stores, inv broadcast.Invoker, log *zap.Logger) (*broadcast.Service, error) {
	jokes, err := NewJokeSource(cfg.Joke)
	if err != nil {
		return nil, err
	}
	var reports broadcast.ReportStore
	if repo := s.Reports(cfg.Redis); repo != nil {
		reports = repo
	}
	return broadcast.New(
		broadcast.Config{
			CountryCode:   cfg.Broadcast.CountryCode,
			Topic:         cfg.Broadcast.Topic,
			FetchTimeout:  cfg.Broadcast.FetchTimeout,
			InvokeTimeout: cfg.Broadcast.InvokeTimeout,
		},
		repository.NewUsersRepository(s.MySQL),
		repository.NewTemplatesRepository(s.MySQL),
		jokes,
		inv,
		reports,
		log,
	), nil
}

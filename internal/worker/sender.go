package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jmehdipour/jokecast/internal/kafka"
	"github.com/jmehdipour/jokecast/internal/model"
	"go.uber.org/zap"
)

// MessageSource is the slice of kafka.Consumer the worker needs.
type MessageSource interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

type SingleSender interface {
	Send(ctx context.Context, req model.SendRequest) (model.Receipt, error)
}

// SenderKafka:
// - fetches send envelopes from Kafka,
// - runs the single-send path for each one,
// - commits every message, sent or not (no retries).
type SenderKafka struct {
	// Dependencies
	Consumer MessageSource
	Sender   SingleSender
	Log      *zap.Logger

	// Behavior
	Workers     int           // number of goroutines processing messages
	SendTimeout time.Duration // per-message budget
}

// NewSenderKafka builds a worker with sane defaults.
func NewSenderKafka(consumer MessageSource, sender SingleSender, log *zap.Logger) *SenderKafka {
	if log == nil {
		log = zap.NewNop()
	}
	return &SenderKafka{
		Consumer:    consumer,
		Sender:      sender,
		Log:         log,
		Workers:     8,
		SendTimeout: 10 * time.Second,
	}
}

// Run starts the worker and blocks until ctx is cancelled and in-flight sends finish.
func (w *SenderKafka) Run(ctx context.Context) error {
	if w.Consumer == nil || w.Sender == nil {
		return errors.New("sender-kafka: missing consumer or sender")
	}
	if w.Workers <= 0 {
		w.Workers = 8
	}
	if w.SendTimeout <= 0 {
		w.SendTimeout = 10 * time.Second
	}

	msgCh := make(chan kafka.Message, w.Workers*2)

	// Fetcher goroutine
	go func() {
		defer close(msgCh)
		for {
			m, err := w.Consumer.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				w.Log.Warn("kafka fetch failed", zap.Error(err))
				time.Sleep(200 * time.Millisecond)
				continue
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < w.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range msgCh {
				w.processOne(ctx, m)
			}
		}()
	}

	wg.Wait()
	return nil
}

func (w *SenderKafka) processOne(ctx context.Context, m kafka.Message) {
	// Parse envelope: { id, broadcast_id, to, message }
	var env model.SendEnvelope
	if err := json.Unmarshal(m.Value, &env); err != nil || env.To == "" {
		w.commit(ctx, m) // poison → commit, skip
		if err != nil {
			w.Log.Warn("bad envelope json", zap.Int64("offset", m.Offset), zap.Error(err))
		} else {
			w.Log.Warn("envelope missing recipient", zap.Int64("offset", m.Offset), zap.String("id", env.ID))
		}
		return
	}

	// sends are not aborted by shutdown once fetched
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.SendTimeout)
	_, err := w.Sender.Send(sctx, env.Request())
	cancel()
	if err != nil {
		w.Log.Error("envelope send failed",
			zap.String("id", env.ID),
			zap.String("broadcast_id", env.BroadcastID),
			zap.String("to", env.To),
			zap.Error(err))
	}

	w.commit(ctx, m)
}

func (w *SenderKafka) commit(ctx context.Context, m kafka.Message) {
	if err := w.Consumer.Commit(context.WithoutCancel(ctx), m); err != nil {
		w.Log.Warn("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
	}
}

package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jmehdipour/jokecast/internal/model"
	"go.uber.org/zap"
)

// Invoker hands one rendered message to the single-send path without waiting
// for the send itself.
type Invoker interface {
	Invoke(ctx context.Context, env model.SendEnvelope) error
}

type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// KafkaInvoker publishes the envelope for the sender worker.
type KafkaInvoker struct {
	pub Publisher
}

func NewKafkaInvoker(pub Publisher) *KafkaInvoker {
	return &KafkaInvoker{pub: pub}
}

func (k *KafkaInvoker) Invoke(ctx context.Context, env model.SendEnvelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := k.pub.Publish(ctx, []byte(env.To), b); err != nil {
		return fmt.Errorf("publish envelope: %w", err)
	}
	return nil
}

type SingleSender interface {
	Send(ctx context.Context, req model.SendRequest) (model.Receipt, error)
}

// LocalInvoker runs the single-send service in its own goroutine. Send errors
// are logged; Wait drains in-flight sends on shutdown.
type LocalInvoker struct {
	sender  SingleSender
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewLocalInvoker(sender SingleSender, timeout time.Duration, log *zap.Logger) *LocalInvoker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalInvoker{sender: sender, timeout: timeout, log: log}
}

func (l *LocalInvoker) Invoke(ctx context.Context, env model.SendEnvelope) error {
	// the send outlives the invocation context
	base := context.WithoutCancel(ctx)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		sctx, cancel := context.WithTimeout(base, l.timeout)
		defer cancel()

		if _, err := l.sender.Send(sctx, env.Request()); err != nil {
			l.log.Error("local send failed",
				zap.String("envelope_id", env.ID),
				zap.String("broadcast_id", env.BroadcastID),
				zap.String("to", env.To),
				zap.Error(err))
		}
	}()
	return nil
}

func (l *LocalInvoker) Wait() { l.wg.Wait() }

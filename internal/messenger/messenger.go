package messenger

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jmehdipour/jokecast/internal/model"
)

var (
	ErrNoHealthy = errors.New("no healthy providers")
	ErrNoAcquire = errors.New("provider not acquired")
)

// Messenger spreads sends over providers round-robin. Every send is a single
// attempt; a failure goes straight back to the caller.
type Messenger struct {
	providers         []Provider
	roundRobinCounter atomic.Uint64
}

func New(provs []Provider) *Messenger {
	return &Messenger{providers: provs}
}

func (m *Messenger) selectProvider() (Provider, error) {
	healthy := make([]Provider, 0, len(m.providers))
	for _, p := range m.providers {
		if p.Ready() {
			healthy = append(healthy, p)
		}
	}

	if len(healthy) == 0 {
		return nil, ErrNoHealthy
	}

	x := m.roundRobinCounter.Add(1)
	idx := int((x - 1) % uint64(len(healthy)))

	return healthy[idx], nil
}

func (m *Messenger) Send(ctx context.Context, msg Message) (model.Receipt, error) {
	p, err := m.selectProvider()
	if err != nil {
		return model.Receipt{}, err
	}

	if !p.Acquire() {
		return model.Receipt{}, ErrNoAcquire
	}

	return p.Send(ctx, msg)
}

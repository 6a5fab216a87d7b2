package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/redis/go-redis/v9"
)

// BroadcastReportsRepository keeps recent broadcast reports in Redis.
type BroadcastReportsRepository interface {
	Save(ctx context.Context, r model.BroadcastReport) error
	Get(ctx context.Context, id string) (*model.BroadcastReport, error)
}

type broadcastReportsRepository struct {
	rds       *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewBroadcastReportsRepository(rds *redis.Client, ttl time.Duration) BroadcastReportsRepository {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &broadcastReportsRepository{rds: rds, keyPrefix: "broadcast:", ttl: ttl}
}

func (r *broadcastReportsRepository) Save(ctx context.Context, rep model.BroadcastReport) error {
	b, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return r.rds.Set(ctx, r.keyPrefix+rep.ID, b, r.ttl).Err()
}

// Get returns nil, nil when the report is unknown or expired.
func (r *broadcastReportsRepository) Get(ctx context.Context, id string) (*model.BroadcastReport, error) {
	b, err := r.rds.Get(ctx, r.keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rep model.BroadcastReport
	if err := json.Unmarshal(b, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

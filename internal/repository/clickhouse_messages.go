package repository

import (
	"context"

	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmoiron/sqlx"
)

// CHMessagesRepository is the append-only message log in ClickHouse.
type CHMessagesRepository interface {
	Insert(ctx context.Context, m model.MessageLog) error
	List(ctx context.Context, phone string, status model.MessageStatus, limit, offset int) ([]model.MessageLog, error)
}

type chMessagesRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHMessagesRepository(ch *sqlx.DB) CHMessagesRepository {
	return &chMessagesRepository{ch: ch}
}

// Insert goes through a one-row batch, which is how clickhouse-go takes inserts over database/sql.
func (r *chMessagesRepository) Insert(ctx context.Context, m model.MessageLog) error {
	tx, err := r.ch.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (id, phone, body, provider, provider_id, status, error, broadcast_id, created_at)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx,
		m.ID, m.To, m.Body, m.Provider, m.ProviderID, m.Status.String(), m.Error, m.BroadcastID, m.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *chMessagesRepository) List(ctx context.Context, phone string, status model.MessageStatus, limit, offset int) ([]model.MessageLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, phone, body, provider, provider_id, status, error, broadcast_id, created_at
		FROM messages
		WHERE 1 = 1
	`
	var args []any

	if status != "" {
		q += " AND status = ?"
		args = append(args, status.String())
	}
	if phone != "" {
		q += " AND phone = ?"
		args = append(args, phone)
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.MessageLog
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

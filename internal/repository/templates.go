package repository

import (
	"context"

	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmoiron/sqlx"
)

// TemplatesRepository is the message_templates collection of the record store.
// Results are ordered by template_id; ids are ULIDs, so this is insertion order.
type TemplatesRepository interface {
	Put(ctx context.Context, t model.Template) error
	QueryByTopic(ctx context.Context, topic string) ([]model.Template, error)
	BatchGet(ctx context.Context, topics []string) (map[string][]model.Template, error)
}

type TemplatesRepositoryImpl struct {
	db *sqlx.DB
}

func NewTemplatesRepository(db *sqlx.DB) *TemplatesRepositoryImpl {
	return &TemplatesRepositoryImpl{db: db}
}

var _ TemplatesRepository = (*TemplatesRepositoryImpl)(nil)

func (r *TemplatesRepositoryImpl) Put(ctx context.Context, t model.Template) error {
	const q = `
		INSERT INTO message_templates
		    (topic, template_id, body, created_at)
		VALUES
		    (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    body = VALUES(body)
	`
	_, err := r.db.ExecContext(ctx, q, t.Topic, t.TemplateID, t.Body, t.CreatedAt)
	return err
}

func (r *TemplatesRepositoryImpl) QueryByTopic(ctx context.Context, topic string) ([]model.Template, error) {
	var rows []model.Template
	err := r.db.SelectContext(ctx, &rows, `
		SELECT topic, template_id, body, created_at
		  FROM message_templates
		 WHERE topic = ?
		 ORDER BY template_id
	`, topic)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BatchGet groups the templates of every requested topic by topic.
func (r *TemplatesRepositoryImpl) BatchGet(ctx context.Context, topics []string) (map[string][]model.Template, error) {
	out := make(map[string][]model.Template, len(topics))
	if len(topics) == 0 {
		return out, nil
	}

	const base = `SELECT topic, template_id, body, created_at FROM message_templates WHERE topic IN (?) ORDER BY topic, template_id`
	query, args, err := sqlx.In(base, topics)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var rows []model.Template
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for _, t := range rows {
		out[t.Topic] = append(out[t.Topic], t)
	}
	return out, nil
}

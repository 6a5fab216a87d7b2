package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmehdipour/jokecast/internal/model"
)

var templateCols = []string{"topic", "template_id", "body", "created_at"}

func TestTemplatesPut(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTemplatesRepository(db)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO message_templates`).
		WithArgs("default", "01HZX", "Hello {username}", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(context.Background(), model.Template{Topic: "default", TemplateID: "01HZX", Body: "Hello {username}", CreatedAt: now})
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTemplatesBatchGetGroupsByTopic(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTemplatesRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM message_templates WHERE topic IN \(\?, \?\) ORDER BY topic, template_id`).
		WithArgs("default", "morning").
		WillReturnRows(sqlmock.NewRows(templateCols).
			AddRow("default", "01A", "first {joke}", now).
			AddRow("default", "01B", "second {joke}", now).
			AddRow("morning", "01C", "gm {username}", now))

	got, err := repo.BatchGet(context.Background(), []string{"default", "morning"})
	if err != nil {
		t.Fatalf("BatchGet() error: %v", err)
	}
	if len(got["default"]) != 2 || got["default"][0].TemplateID != "01A" {
		t.Fatalf("unexpected default templates: %+v", got["default"])
	}
	if len(got["morning"]) != 1 {
		t.Fatalf("unexpected morning templates: %+v", got["morning"])
	}
}

func TestTemplatesBatchGetError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTemplatesRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`FROM message_templates`).WillReturnError(boom)

	if _, err := repo.BatchGet(context.Background(), []string{"default"}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestTemplatesQueryByTopic(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTemplatesRepository(db)

	mock.ExpectQuery(`WHERE topic = \?`).
		WithArgs("default").
		WillReturnRows(sqlmock.NewRows(templateCols).AddRow("default", "01A", "x", time.Now()))

	got, err := repo.QueryByTopic(context.Background(), "default")
	if err != nil || len(got) != 1 {
		t.Fatalf("QueryByTopic() = %+v, %v", got, err)
	}
}

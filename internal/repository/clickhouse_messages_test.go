package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmehdipour/jokecast/internal/model"
)

func TestCHMessagesInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCHMessagesRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO messages`).
		ExpectExec().
		WithArgs("01M", "+48500000000", "hi", "twilio", "SM1", "sent", "", "01B", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Insert(context.Background(), model.MessageLog{
		ID: "01M", To: "+48500000000", Body: "hi", Provider: "twilio", ProviderID: "SM1",
		Status: model.StatusSent, BroadcastID: "01B", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCHMessagesListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCHMessagesRepository(db)

	cols := []string{"id", "phone", "body", "provider", "provider_id", "status", "error", "broadcast_id", "created_at"}
	mock.ExpectQuery(`FROM messages\s+WHERE 1 = 1\s+AND status = \? AND phone = \? ORDER BY created_at DESC LIMIT \? OFFSET \?`).
		WithArgs("failed", "+48500000000", 50, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("01M", "+48500000000", "hi", "twilio", "", "failed", "status=500", "", time.Now()))

	rows, err := repo.List(context.Background(), "+48500000000", model.StatusFailed, 5000, -1)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != model.StatusFailed || rows[0].Error != "status=500" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

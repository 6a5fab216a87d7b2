package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

var userCols = []string{"country_code", "phone_number", "username", "created_at"}

func TestUsersPut(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsersRepository(db)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("+48", "+48500000000", "Ann", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(context.Background(), model.User{CountryCode: "+48", PhoneNumber: "+48500000000", Username: "Ann", CreatedAt: now})
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUsersQueryByCountry(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsersRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT country_code, phone_number, username, created_at\s+FROM users\s+WHERE country_code = \?`).
		WithArgs("+48").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("+48", "+48500000000", "Ann", now).
			AddRow("+48", "+48500000001", "Bob", now))

	users, err := repo.QueryByCountry(context.Background(), "+48")
	if err != nil {
		t.Fatalf("QueryByCountry() error: %v", err)
	}
	if len(users) != 2 || users[0].Username != "Ann" || users[1].PhoneNumber != "+48500000001" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUsersQueryByCountryEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsersRepository(db)

	mock.ExpectQuery(`FROM users`).WithArgs("+1").WillReturnRows(sqlmock.NewRows(userCols))

	users, err := repo.QueryByCountry(context.Background(), "+1")
	if err != nil {
		t.Fatalf("QueryByCountry() error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no users, got %+v", users)
	}
}

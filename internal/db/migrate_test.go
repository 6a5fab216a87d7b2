package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

const script = `-- users
CREATE TABLE IF NOT EXISTS users (
  country_code VARCHAR(8) NOT NULL
);

-- templates
CREATE TABLE IF NOT EXISTS message_templates (
  topic VARCHAR(64) NOT NULL
);
`

func TestStatements(t *testing.T) {
	got := Statements(script)
	if len(got) != 2 {
		t.Fatalf("statements=%d: %q", len(got), got)
	}
	want := "CREATE TABLE IF NOT EXISTS users (\n  country_code VARCHAR(8) NOT NULL\n)"
	if got[0] != want {
		t.Fatalf("first=%q", got[0])
	}
}

func TestStatements_TrailingWithoutSemicolon(t *testing.T) {
	got := Statements("SELECT 1;\nSELECT 2")
	if len(got) != 2 || got[1] != "SELECT 2" {
		t.Fatalf("got %q", got)
	}
	if len(Statements("-- only a comment\n\n")) != 0 {
		t.Fatalf("comment-only script should yield nothing")
	}
}

func TestMigrate_StopsAtFirstFailure(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	dbx := sqlx.NewDb(raw, "mysql")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS message_templates")).
		WillReturnError(errors.New("boom"))

	n, err := Migrate(context.Background(), dbx, script)
	if err == nil || n != 1 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

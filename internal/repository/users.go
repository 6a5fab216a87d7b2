package repository

import (
	"context"

	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmoiron/sqlx"
)

// UsersRepository is the users collection of the record store.
type UsersRepository interface {
	Put(ctx context.Context, u model.User) error
	QueryByCountry(ctx context.Context, countryCode string) ([]model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
}

type UsersRepositoryImpl struct {
	db *sqlx.DB
}

func NewUsersRepository(db *sqlx.DB) *UsersRepositoryImpl {
	return &UsersRepositoryImpl{db: db}
}

var _ UsersRepository = (*UsersRepositoryImpl)(nil)

// Put upserts a user; re-registering a number replaces its username.
func (r *UsersRepositoryImpl) Put(ctx context.Context, u model.User) error {
	const q = `
		INSERT INTO users
		    (country_code, phone_number, username, created_at)
		VALUES
		    (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    username = VALUES(username)
	`
	_, err := r.db.ExecContext(ctx, q, u.CountryCode, u.PhoneNumber, u.Username, u.CreatedAt)
	return err
}

func (r *UsersRepositoryImpl) QueryByCountry(ctx context.Context, countryCode string) ([]model.User, error) {
	var rows []model.User
	err := r.db.SelectContext(ctx, &rows, `
		SELECT country_code, phone_number, username, created_at
		  FROM users
		 WHERE country_code = ?
		 ORDER BY phone_number
	`, countryCode)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UsersRepositoryImpl) ListAll(ctx context.Context) ([]model.User, error) {
	var rows []model.User
	err := r.db.SelectContext(ctx, &rows, `
		SELECT country_code, phone_number, username, created_at
		  FROM users
		 ORDER BY country_code, phone_number
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

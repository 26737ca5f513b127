package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmordell/parley/internal/model"
	"github.com/lmordell/parley/internal/store"
)

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Create(ctx context.Context, username, hashedPassword string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (username, hashed_password) VALUES ($1, $2)`,
		username, hashedPassword)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("store/postgres: create user: %w", err)
	}

	return nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx,
		`SELECT username, hashed_password, created_at FROM users WHERE username = $1`,
		username).Scan(&u.Username, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, store.ErrNotFound
		}
		return model.User{}, fmt.Errorf("store/postgres: get user: %w", err)
	}

	return u, nil
}

func (s *UserStore) Search(ctx context.Context, q string, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT username FROM users WHERE username ILIKE '%' || $1 || '%' ORDER BY username LIMIT $2`,
		q, limit)
	if err != nil {
		return nil, fmt.Errorf("store/postgres: search users: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("store/postgres: search users: %w", err)
		}
		usernames = append(usernames, username)
	}

	return usernames, rows.Err()
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmordell/parley/internal/model"
	"github.com/lmordell/parley/internal/store"
)

type RoomStore struct {
	pool *pgxpool.Pool
}

func NewRoomStore(pool *pgxpool.Pool) *RoomStore {
	return &RoomStore{pool: pool}
}

func (s *RoomStore) Create(ctx context.Context, roomID string, members []string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO rooms (room_id, members) VALUES ($1, $2)`,
		roomID, members)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("store/postgres: create room: %w", err)
	}

	return nil
}

func (s *RoomStore) FindByMember(ctx context.Context, username string) ([]model.Room, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT room_id, members, created_at FROM rooms WHERE $1 = ANY(members) ORDER BY created_at`,
		username)
	if err != nil {
		return nil, fmt.Errorf("store/postgres: find rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var r model.Room
		if err := rows.Scan(&r.RoomID, &r.Members, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store/postgres: find rooms: %w", err)
		}
		rooms = append(rooms, r)
	}

	return rooms, rows.Err()
}

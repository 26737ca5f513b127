package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmordell/parley/internal/model"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

func (s *MessageStore) Append(ctx context.Context, msg model.Message) (model.Message, error) {
	createdAt := pgtype.Timestamptz{Time: msg.CreatedAt, Valid: true}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO messages (id, room_id, sender, content, type, file_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		msg.ID, msg.RoomID, msg.Sender, msg.Content, msg.Type, msg.FileURL, createdAt,
	).Scan(&msg.CreatedAt)
	if err != nil {
		return model.Message{}, fmt.Errorf("store/postgres: append message: %w", err)
	}

	return msg, nil
}

func (s *MessageStore) ListByRoom(ctx context.Context, roomID string, limit int) ([]model.Message, error) {
	// Most recent window, returned oldest first.
	rows, err := s.pool.Query(ctx,
		`SELECT id, room_id, sender, content, type, file_url, created_at
		 FROM (
		   SELECT * FROM messages WHERE room_id = $1 ORDER BY created_at DESC LIMIT $2
		 ) recent
		 ORDER BY created_at ASC`,
		roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("store/postgres: list messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.Sender, &m.Content, &m.Type, &m.FileURL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("store/postgres: list messages: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

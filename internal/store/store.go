// Package store defines the persistence contracts the coordinator and the
// HTTP layer depend on. Implementations live in subpackages.
package store

import (
	"context"
	"errors"

	"github.com/lmordell/parley/internal/model"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

type UserStore interface {
	// Create fails with ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, username, hashedPassword string) error
	GetByUsername(ctx context.Context, username string) (model.User, error)
	// Search returns up to limit usernames containing q, case-insensitive.
	Search(ctx context.Context, q string, limit int) ([]string, error)
}

type RoomStore interface {
	// Create fails with ErrAlreadyExists when the room id is taken.
	Create(ctx context.Context, roomID string, members []string) error
	FindByMember(ctx context.Context, username string) ([]model.Room, error)
}

type MessageStore interface {
	// Append persists the message and returns it as stored.
	Append(ctx context.Context, msg model.Message) (model.Message, error)
	// ListByRoom returns up to limit messages, oldest first.
	ListByRoom(ctx context.Context, roomID string, limit int) ([]model.Message, error)
}

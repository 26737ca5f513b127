// Package model defines data structures shared across the application.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Message type tags. Anything else is rejected at the socket boundary.
const (
	MessageTypeText = "text"
	MessageTypeFile = "file"
)

// Message holds a single chat message. The sender is always taken from the
// authenticated connection, never from client input.
type Message struct {
	ID        uuid.UUID `json:"id"`
	RoomID    string    `json:"room_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	FileURL   string    `json:"file_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is a named channel with a persisted member list. The set of currently
// joined connections is transient and lives in the hub only.
type Room struct {
	RoomID    string    `json:"room_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an account record. The username doubles as the identity on the
// realtime side.
type User struct {
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

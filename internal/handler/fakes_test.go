package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lmordell/parley/internal/model"
	"github.com/lmordell/parley/internal/store"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, username, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return store.ErrAlreadyExists
	}
	s.users[username] = model.User{
		Username:       username,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	return nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) Search(_ context.Context, q string, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []string
	for username := range s.users {
		if strings.Contains(strings.ToLower(username), strings.ToLower(q)) {
			matches = append(matches, username)
		}
	}
	sort.Strings(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

type fakeRoomStore struct {
	mu    sync.Mutex
	rooms map[string]model.Room
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]model.Room)}
}

func (s *fakeRoomStore) Create(_ context.Context, roomID string, members []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[roomID]; ok {
		return store.ErrAlreadyExists
	}
	s.rooms[roomID] = model.Room{
		RoomID:    roomID,
		Members:   members,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *fakeRoomStore) FindByMember(_ context.Context, username string) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Room
	for _, r := range s.rooms {
		for _, m := range r.Members {
			if m == username {
				out = append(out, r)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out, nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []model.Message
	err      error
}

func (s *fakeMessageStore) Append(_ context.Context, msg model.Message) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return model.Message{}, s.err
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *fakeMessageStore) ListByRoom(_ context.Context, roomID string, limit int) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Message
	for _, m := range s.messages {
		if m.RoomID == roomID && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMessageStore) stored() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.messages...)
}

type fakeBlobStore struct {
	mu        sync.Mutex
	lastName  string
	lastBytes []byte
}

func (s *fakeBlobStore) Store(data []byte, originalName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastName = originalName
	s.lastBytes = append([]byte(nil), data...)
	return "http://localhost:8080/uploads/123-" + originalName, nil
}

// Package chat implements the real-time messaging coordinator: it tracks
// connected clients, room membership, typing state, and fans messages out to
// the connections currently joined to a room.
package chat

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/lmordell/parley/internal/model"
	"github.com/lmordell/parley/internal/store"
)

type sanitizer interface {
	Sanitize(s string) string
	SanitizeBytes(p []byte) []byte
}

// Hub owns all in-memory realtime state. Every map is guarded by mu; events
// are delivered outside the lock to a snapshot of the target set, so an
// in-flight broadcast never races a membership change.
type Hub struct {
	messages  store.MessageStore
	sanitizer sanitizer

	mu      sync.RWMutex
	clients map[string]*Client             // identity -> most recent connection
	rooms   map[string]map[*Client]struct{} // room id -> joined connections
	typing  map[string]map[string]struct{} // room id -> identities typing
}

// NewHub returns a new instance of Hub.
func NewHub(messages store.MessageStore) *Hub {
	return &Hub{
		messages:  messages,
		sanitizer: bluemonday.StrictPolicy(),
		clients:   make(map[string]*Client),
		rooms:     make(map[string]map[*Client]struct{}),
		typing:    make(map[string]map[string]struct{}),
	}
}

// Register binds a client to its identity and announces it online. A previous
// connection under the same identity is superseded: detached from every room
// and typing set, then closed.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	prev := h.clients[c.username]
	h.clients[c.username] = c

	var updates []typingUpdate
	if prev != nil && prev != c {
		updates = h.detachLocked(prev)
	}
	h.mu.Unlock()

	if prev != nil && prev != c {
		prev.close()
		log.Printf("connection for [%s] superseded", c.username)
	}
	h.deliverTypingUpdates(updates)

	h.broadcastAll(model.NewPresenceEvent(c.username, true))
}

// Unregister removes the client from the registry and from every room and
// typing set, then announces it offline. Idempotent; a superseded connection
// unregistering later does not touch the registry entry of its successor.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	current, ok := h.clients[c.username]
	removed := ok && current == c
	if removed {
		delete(h.clients, c.username)
	}
	updates := h.detachLocked(c)
	h.mu.Unlock()

	c.close()
	h.deliverTypingUpdates(updates)

	if removed {
		h.broadcastAll(model.NewPresenceEvent(c.username, false))
	}
}

// IsOnline reports whether the identity has a live connection.
func (h *Hub) IsOnline(username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.clients[username]
	return ok
}

// Join subscribes the client to a room's broadcasts. Joining twice has no
// additional effect. Persisted room membership is deliberately not checked;
// the caller is trusted, as the upstream design trusts its UI.
func (h *Hub) Join(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.rooms[roomID]
	if !ok {
		set = make(map[*Client]struct{})
		h.rooms[roomID] = set
	}
	set[c] = struct{}{}
}

// Submit persists a message attributed to the client's identity and, only
// after the store write succeeds, delivers it to every connection joined to
// the room, the sender included. A failed write is logged and the message is
// dropped; there is no retry and no broadcast.
func (h *Hub) Submit(ctx context.Context, c *Client, ev model.ClientEvent) {
	msgType := ev.Type
	if msgType == "" {
		msgType = model.MessageTypeText
	}

	msg := model.Message{
		ID:        uuid.New(),
		RoomID:    ev.RoomID,
		Sender:    c.username,
		Content:   h.sanitizer.Sanitize(ev.Content),
		Type:      msgType,
		FileURL:   ev.FileURL,
		CreatedAt: time.Now().UTC(),
	}

	stored, err := h.messages.Append(ctx, msg)
	if err != nil {
		log.Printf("failed to store message to database: %v", err)
		return
	}

	h.broadcastRoom(stored.RoomID, model.NewMessageEvent(stored))
}

// SetTyping adds or removes the client's identity from the room's typing set
// and pushes the full current set to every joined connection.
func (h *Hub) SetTyping(c *Client, roomID string, typing bool) {
	h.mu.Lock()
	set, ok := h.typing[roomID]
	if !ok {
		set = make(map[string]struct{})
		h.typing[roomID] = set
	}

	if typing {
		set[c.username] = struct{}{}
	} else {
		delete(set, c.username)
		if len(set) == 0 {
			delete(h.typing, roomID)
		}
	}

	update := typingUpdate{
		event:   model.NewTypingEvent(roomID, sortedKeys(set)),
		targets: h.roomSnapshotLocked(roomID),
	}
	h.mu.Unlock()

	h.deliverTypingUpdates([]typingUpdate{update})
}

// TypingUsers returns the current typing set for a room, sorted.
func (h *Hub) TypingUsers(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return sortedKeys(h.typing[roomID])
}

// typingUpdate pairs a typing_users event with the delivery targets captured
// while the lock was held.
type typingUpdate struct {
	event   model.ServerEvent
	targets []*Client
}

// detachLocked removes the client from every room's join set and its identity
// from every typing set, returning the typing re-broadcasts owed to affected
// rooms. Callers must hold mu.
func (h *Hub) detachLocked(c *Client) []typingUpdate {
	for roomID, set := range h.rooms {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, roomID)
		}
	}

	var updates []typingUpdate
	for roomID, set := range h.typing {
		if _, ok := set[c.username]; !ok {
			continue
		}
		delete(set, c.username)
		if len(set) == 0 {
			delete(h.typing, roomID)
		}
		updates = append(updates, typingUpdate{
			event:   model.NewTypingEvent(roomID, sortedKeys(set)),
			targets: h.roomSnapshotLocked(roomID),
		})
	}

	return updates
}

func (h *Hub) deliverTypingUpdates(updates []typingUpdate) {
	for _, u := range updates {
		for _, target := range u.targets {
			target.trySend(u.event)
		}
	}
}

// roomSnapshotLocked copies a room's join set. Callers must hold mu.
func (h *Hub) roomSnapshotLocked(roomID string) []*Client {
	set := h.rooms[roomID]
	targets := make([]*Client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	return targets
}

func (h *Hub) broadcastRoom(roomID string, ev model.ServerEvent) {
	h.mu.RLock()
	targets := h.roomSnapshotLocked(roomID)
	h.mu.RUnlock()

	for _, c := range targets {
		c.trySend(ev)
	}
}

func (h *Hub) broadcastAll(ev model.ServerEvent) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.trySend(ev)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

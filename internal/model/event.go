package model

// Client-to-server event names, mirroring the wire protocol.
const (
	EventJoinRoom    = "join_room"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
)

// Server-to-client event names.
const (
	EventMessage     = "message"
	EventPresence    = "presence"
	EventTypingUsers = "typing_users"
)

// ClientEvent is the envelope for everything a client sends over the
// websocket. Fields are interpreted per Event; unknown or malformed events
// are dropped without a reply.
type ClientEvent struct {
	Event   string `json:"event" validate:"required,oneof=join_room send_message typing"`
	RoomID  string `json:"room_id" validate:"required,max=128"`
	Content string `json:"content" validate:"max=4096"`
	Type    string `json:"type" validate:"omitempty,oneof=text file"`
	FileURL string `json:"file_url" validate:"omitempty,max=2048"`
	Typing  bool   `json:"typing"`
}

// ServerEvent is the envelope pushed to clients. Exactly one of the payload
// fields is set, selected by Event.
type ServerEvent struct {
	Event     string   `json:"event"`
	Message   *Message `json:"message,omitempty"`
	Username  string   `json:"username,omitempty"`
	Online    *bool    `json:"online,omitempty"`
	RoomID    string   `json:"room_id,omitempty"`
	Usernames []string `json:"usernames,omitempty"`
}

// NewMessageEvent wraps a stored message for fan-out.
func NewMessageEvent(msg Message) ServerEvent {
	return ServerEvent{Event: EventMessage, Message: &msg}
}

// NewPresenceEvent announces an online/offline transition.
func NewPresenceEvent(username string, online bool) ServerEvent {
	return ServerEvent{Event: EventPresence, Username: username, Online: &online}
}

// NewTypingEvent carries the full current typing set for a room.
func NewTypingEvent(roomID string, usernames []string) ServerEvent {
	return ServerEvent{Event: EventTypingUsers, RoomID: roomID, Usernames: usernames}
}

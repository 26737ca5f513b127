package chat

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/lmordell/parley/internal/model"
)

var validate = validator.New()

// Client is one live websocket connection bound to an authenticated identity.
// The hub writes outbound events into Events; WritePump drains them onto the
// socket.
type Client struct {
	username string
	conn     *websocket.Conn
	hub      *Hub

	send    chan model.ServerEvent
	closeMu sync.Mutex
	closed  bool

	messageLim *rate.Limiter
	typingLim  *rate.Limiter
}

// NewClient returns a new instance of Client. conn may be nil in tests that
// only exercise hub state.
func NewClient(hub *Hub, conn *websocket.Conn, username string) *Client {
	return &Client{
		username: username,
		conn:     conn,
		hub:      hub,
		send:     make(chan model.ServerEvent, 64),
	}
}

func (c *Client) Username() string {
	return c.username
}

// Events exposes the outbound stream for tests and alternative transports.
func (c *Client) Events() <-chan model.ServerEvent {
	return c.send
}

func (c *Client) SetMessageLimiter(requests int, window time.Duration) {
	c.messageLim = rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)
}

func (c *Client) SetTypingLimiter(requests int, window time.Duration) {
	c.typingLim = rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)
}

// trySend queues an event without blocking. Events to a closed or slow
// client are dropped; delivery is best-effort by design.
func (c *Client) trySend(ev model.ServerEvent) {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- ev:
	default:
		log.Printf("dropping event for slow client [%s]", c.username)
	}
}

// close shuts the outbound channel exactly once.
func (c *Client) close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump reads incoming events from the websocket until the connection
// drops, then unregisters the client so registry, join sets, and typing sets
// are cleaned up before the next operation can observe them.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow()
	}()

	for {
		msgType, p, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure &&
				status != websocket.StatusGoingAway &&
				status != -1 {
				log.Printf("%v", err)
			}
			return
		}

		if msgType != websocket.MessageText {
			continue
		}

		var ev model.ClientEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			log.Printf("failed to process payload from client: %v", err)
			continue
		}

		// Malformed events are dropped without a reply; the realtime
		// protocol has no per-event acknowledgment channel.
		if err := validate.Struct(ev); err != nil {
			log.Printf("invalid event from [%s]: %v", c.username, err)
			continue
		}

		c.dispatch(ctx, ev)
	}
}

func (c *Client) dispatch(ctx context.Context, ev model.ClientEvent) {
	switch ev.Event {
	case model.EventJoinRoom:
		c.hub.Join(c, ev.RoomID)

	case model.EventSendMessage:
		if c.messageLim != nil && !c.messageLim.Allow() {
			slog.WarnContext(ctx, "message rate limit exceeded",
				"username", c.username,
				"room_id", ev.RoomID)
			return
		}
		c.hub.Submit(ctx, c, ev)

	case model.EventTyping:
		if c.typingLim != nil && !c.typingLim.Allow() {
			return
		}
		c.hub.SetTyping(c, ev.RoomID, ev.Typing)
	}
}

// WritePump drains the outbound channel onto the websocket.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := wsjson.Write(writeCtx, c.conn, ev)
			cancel()
			if err != nil {
				slog.WarnContext(ctx, "failed to write event",
					"error", err,
					"username", c.username)
				return
			}

		case <-ctx.Done():
			c.conn.Close(websocket.StatusGoingAway, "context cancelled")
			return
		}
	}
}

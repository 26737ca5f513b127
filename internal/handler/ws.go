package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/lmordell/parley/internal"
	"github.com/lmordell/parley/internal/auth"
	"github.com/lmordell/parley/internal/chat"
)

// WsOptions carries the per-connection event budgets.
type WsOptions struct {
	MessageRateLimit  int
	MessageRateWindow time.Duration
	TypingRateLimit   int
	TypingRateWindow  time.Duration
}

// ServeWs authenticates the bearer credential, upgrades the connection, and
// hands it to the hub. Authentication is one-shot: an invalid or missing
// token refuses the connection before any state is created.
func ServeWs(h *chat.Hub, jwtSecret string, opts WsOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := internal.BearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "missing credentials")
			return
		}

		username, err := auth.ValidateJWT(token, jwtSecret)
		if err != nil {
			log.Printf("websocket auth failed: %v", err)
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			log.Printf("failed to upgrade connection: %v", err)
			return
		}

		log.Printf("upgraded connection for user [%s]", username)

		c := chat.NewClient(h, conn, username)
		if opts.MessageRateLimit > 0 {
			c.SetMessageLimiter(opts.MessageRateLimit, opts.MessageRateWindow)
		}
		if opts.TypingRateLimit > 0 {
			c.SetTypingLimiter(opts.TypingRateLimit, opts.TypingRateWindow)
		}

		h.Register(c)

		// We block on ReadPump because the request context is canceled as
		// soon as we return from the handler.
		go c.WritePump(ctx)
		c.ReadPump(ctx)
	}
}

package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lmordell/parley/internal/model"
	"github.com/lmordell/parley/internal/store"
)

// historyLimit bounds a single history load, matching the client's window.
const historyLimit = 100

// ListMessages loads recent room history, oldest first, so clients can render
// it before the websocket takes over.
func ListMessages(messages store.MessageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		roomID := chi.URLParam(r, "roomID")
		if roomID == "" {
			respondError(w, http.StatusBadRequest, "room id required")
			return
		}

		list, err := messages.ListByRoom(ctx, roomID, historyLimit)
		if err != nil {
			log.Printf("failed to load messages from database: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}
		if list == nil {
			list = []model.Message{}
		}

		respondJSON(w, http.StatusOK, list)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmordell/parley/internal/model"
)

func TestListMessages(t *testing.T) {
	messages := &fakeMessageStore{}

	now := time.Now().UTC()
	for i, content := range []string{"first", "second", "third"} {
		_, err := messages.Append(context.Background(), model.Message{
			ID:        uuid.New(),
			RoomID:    "general",
			Sender:    "alice",
			Content:   content,
			Type:      model.MessageTypeText,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}
	_, err := messages.Append(context.Background(), model.Message{
		ID:        uuid.New(),
		RoomID:    "other",
		Sender:    "bob",
		Content:   "elsewhere",
		Type:      model.MessageTypeText,
		CreatedAt: now,
	})
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Get("/api/messages/{roomID}", ListMessages(messages))

	t.Run("room history oldest first", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/messages/general", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got []model.Message
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Len(t, got, 3)
		assert.Equal(t, "first", got[0].Content)
		assert.Equal(t, "third", got[2].Content)
		for _, m := range got {
			assert.Equal(t, "general", m.RoomID)
		}
	})

	t.Run("unknown room yields empty list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/messages/nowhere", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

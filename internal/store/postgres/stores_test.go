package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmordell/parley/internal/model"
	"github.com/lmordell/parley/internal/store"
	"github.com/lmordell/parley/internal/testutil"
)

func TestPostgresStores(t *testing.T) {
	testURL := testutil.TestDatabaseURL()
	if testURL == "" {
		t.Skip("TEST_DB_URL environment variable is not set")
	}

	db, dbForGoose, migDir := testutil.DbInit(testURL)
	testutil.DbGooseUp(dbForGoose, migDir)
	defer testutil.DbCleanup(db, migDir)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := NewUserStore(db)
	rooms := NewRoomStore(db)
	messages := NewMessageStore(db)

	t.Run("users", func(t *testing.T) {
		require.NoError(t, users.Create(ctx, "alice", "hash-a"))
		require.NoError(t, users.Create(ctx, "alicia", "hash-b"))

		err := users.Create(ctx, "alice", "hash-c")
		assert.ErrorIs(t, err, store.ErrAlreadyExists)

		u, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "hash-a", u.HashedPassword)

		_, err = users.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrNotFound)

		matches, err := users.Search(ctx, "ALI", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "alicia"}, matches)
	})

	t.Run("rooms", func(t *testing.T) {
		require.NoError(t, rooms.Create(ctx, "general", []string{"alice", "alicia"}))

		err := rooms.Create(ctx, "general", []string{"alice"})
		assert.ErrorIs(t, err, store.ErrAlreadyExists)

		found, err := rooms.FindByMember(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "general", found[0].RoomID)
		assert.Equal(t, []string{"alice", "alicia"}, found[0].Members)

		found, err = rooms.FindByMember(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("messages", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Microsecond)
		for i, content := range []string{"first", "second", "third"} {
			_, err := messages.Append(ctx, model.Message{
				ID:        uuid.New(),
				RoomID:    "general",
				Sender:    "alice",
				Content:   content,
				Type:      model.MessageTypeText,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		list, err := messages.ListByRoom(ctx, "general", 100)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "first", list[0].Content)
		assert.Equal(t, "third", list[2].Content)

		// The limit keeps the most recent window, still oldest first.
		list, err = messages.ListByRoom(ctx, "general", 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "second", list[0].Content)
		assert.Equal(t, "third", list[1].Content)
	})
}

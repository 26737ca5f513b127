package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lmordell/parley/internal/auth"
	"github.com/lmordell/parley/internal/model"
	"github.com/lmordell/parley/internal/store"
)

type createRoomRequest struct {
	RoomID  string   `json:"room_id" validate:"required,max=128"`
	Members []string `json:"members" validate:"required,min=1,dive,required"`
}

// CreateRoom persists a new room with its member list.
func CreateRoom(rooms store.RoomStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "room_id and members required")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondError(w, http.StatusBadRequest, "room_id and members required")
			return
		}

		if err := rooms.Create(ctx, req.RoomID, req.Members); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				respondError(w, http.StatusConflict, "room already exists")
				return
			}
			log.Printf("failed to create room entry in database: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}

		respondJSON(w, http.StatusCreated, map[string]string{"message": "room created"})
	}
}

// ListRooms returns the rooms whose persisted member list contains the
// authenticated caller.
func ListRooms(rooms store.RoomStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		username, err := auth.GetUserFromContext(ctx)
		if err != nil {
			log.Printf("%v", err)
			respondError(w, http.StatusUnauthorized, "missing credentials")
			return
		}

		list, err := rooms.FindByMember(ctx, username)
		if err != nil {
			log.Printf("failed to load rooms from database: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}
		if list == nil {
			list = []model.Room{}
		}

		respondJSON(w, http.StatusOK, list)
	}
}

package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lmordell/parley/internal/store"
)

const searchLimit = 10

// SearchUsers returns usernames matching the query fragment.
func SearchUsers(users store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		q := chi.URLParam(r, "q")
		if q == "" {
			respondJSON(w, http.StatusOK, []string{})
			return
		}

		matches, err := users.Search(ctx, q, searchLimit)
		if err != nil {
			log.Printf("failed to search users: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}
		if matches == nil {
			matches = []string{}
		}

		respondJSON(w, http.StatusOK, matches)
	}
}

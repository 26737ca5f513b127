package handler

import (
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lmordell/parley/internal/auth"
	"github.com/lmordell/parley/internal/store"
)

var validate = validator.New()

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register handles account creation.
func Register(users store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "username and password required")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid username or password format")
			return
		}

		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Printf("argon2id hash creation failed: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}

		if err := users.Create(ctx, req.Username, hashed); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				respondError(w, http.StatusConflict, "username already exists")
				return
			}
			log.Printf("failed to create user entry in database: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}

		slog.InfoContext(ctx, "user registered",
			slog.String("username", req.Username))

		respondJSON(w, http.StatusCreated, map[string]string{"message": "user created"})
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a session token.
func Login(users store.UserStore, jwtSecret, jwtIssuer string, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "username and password required")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondError(w, http.StatusBadRequest, "username and password required")
			return
		}

		user, err := users.GetByUsername(ctx, req.Username)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("failed to retrieve user from db: %v", err)
			}
			respondError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}

		ok, err := auth.CheckPasswordHash(req.Password, user.HashedPassword)
		if err != nil {
			log.Printf("cannot verify password, hash may be corrupted: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}

		token, err := auth.MakeJWT(user.Username, jwtSecret, jwtIssuer, tokenTTL)
		if err != nil {
			log.Printf("failed to create JWT: %v", err)
			respondError(w, http.StatusInternalServerError, "server error")
			return
		}

		slog.InfoContext(ctx, "user logged in",
			slog.String("username", user.Username))

		respondJSON(w, http.StatusOK, map[string]string{
			"token":    token,
			"username": user.Username,
		})
	}
}

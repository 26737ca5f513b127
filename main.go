// Package main our entry point.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmordell/parley/internal"
	"github.com/lmordell/parley/internal/blob"
	"github.com/lmordell/parley/internal/chat"
	"github.com/lmordell/parley/internal/config"
	"github.com/lmordell/parley/internal/handler"
	"github.com/lmordell/parley/internal/ratelimiter"
	"github.com/lmordell/parley/internal/store/postgres"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	log.Println("Starting application...")
	log.Println("Initializing database connection...")

	dbConn, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("could not connect to the postgresql database: %v", err)
	}

	userStore := postgres.NewUserStore(dbConn)
	roomStore := postgres.NewRoomStore(dbConn)
	messageStore := postgres.NewMessageStore(dbConn)

	blobStore, err := blob.NewDiskStore(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		log.Fatalf("could not initialize blob storage: %v", err)
	}

	// The hub holds all realtime state: connection registry, room join sets,
	// and typing sets.
	hub := chat.NewHub(messageStore)

	authLimiter := ratelimiter.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow,
		ratelimiter.CleanupOpts{
			TTL:      10 * time.Minute,
			Interval: time.Minute,
		})
	defer authLimiter.Cancel()

	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/api/register",
		authLimiter.Middleware(handler.Register(userStore)))
	mux.Method(http.MethodPost, "/api/login",
		authLimiter.Middleware(handler.Login(userStore, cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)))

	mux.Group(func(r chi.Router) {
		r.Use(internal.Middleware(cfg.JWTSecret))
		r.Post("/api/upload", handler.Upload(blobStore))
		r.Post("/api/rooms", handler.CreateRoom(roomStore))
		r.Get("/api/rooms", handler.ListRooms(roomStore))
		r.Get("/api/messages/{roomID}", handler.ListMessages(messageStore))
		r.Get("/api/users/search/{q}", handler.SearchUsers(userStore))
	})

	mux.Get("/ws", handler.ServeWs(hub, cfg.JWTSecret, handler.WsOptions{
		MessageRateLimit:  cfg.MessageRateLimit,
		MessageRateWindow: cfg.MessageRateWindow,
		TypingRateLimit:   cfg.TypingRateLimit,
		TypingRateWindow:  cfg.TypingRateWindow,
	}))

	fs := http.FileServer(http.Dir(blobStore.Dir()))
	mux.Handle("/uploads/*", http.StripPrefix("/uploads/", fs))

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		log.Printf("Server starting at 0.0.0.0:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutdown signal received; shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println(err)
	}

	dbConn.Close()

	log.Println("Server stopped")
}

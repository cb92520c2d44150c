// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"staydesk/internal/config"
	"staydesk/internal/server/auth"
	"staydesk/internal/server/database"
	"staydesk/internal/server/handlers"
)

type Server struct {
	db     *database.DB
	router *gin.Engine
	http   *http.Server
}

func NewServer(db *database.DB, cfg *config.ServerConfig) *Server {
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	router := handlers.NewRouter(db, handlers.NewAuthHandler(db, tokens), cfg.AllowedOrigins)

	return &Server{
		db:     db,
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		log.Printf("Server started on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func main() {
	config.LoadEnv()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal("Configuration error:", err)
	}

	if err := database.Migrate(cfg.Database); err != nil {
		log.Fatal("Migration error:", err)
	}

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Fatal("Database connection error:", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := NewServer(db, cfg)
	if err := server.Start(ctx); err != nil {
		log.Fatal("Server error:", err)
	}
}

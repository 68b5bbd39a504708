package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/drawdash/drawdash-backend/internal/config"
	"github.com/drawdash/drawdash-backend/internal/game"
)

// Server owns the HTTP surface: routes, the websocket hub, and the
// session the hub feeds.
type Server struct {
	cfg     *config.Config
	hub     *Hub
	session *game.Session
}

func New(cfg *config.Config, hub *Hub, session *game.Session) *Server {
	return &Server{
		cfg:     cfg,
		hub:     hub,
		session: session,
	}
}

func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Bind, s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.RegisterRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("[ListenAndServe] listening on %s", addr)
	return srv.ListenAndServe()
}

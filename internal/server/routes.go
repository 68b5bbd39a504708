package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)

	r.HandleFunc("/", s.HealthHandler)
	r.HandleFunc("/state", s.StateHandler)
	r.HandleFunc("/ws", s.HandleWebSocket)

	return r
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		// Websocket upgrades skip further CORS handling.
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.Printf("[HealthHandler] encoding response: %v", err)
	}
}

// StateHandler exposes a read-only snapshot of the running game, handy
// for monitoring and for clients polling before opening a socket.
func (s *Server) StateHandler(w http.ResponseWriter, r *http.Request) {
	state, names, scores := s.session.State()

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"gameState": state,
		"userList":  names,
		"scores":    scores,
	})
	if err != nil {
		log.Printf("[StateHandler] encoding response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

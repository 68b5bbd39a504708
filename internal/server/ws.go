package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/drawdash/drawdash-backend/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection and runs its read loop. A
// display name may come from the ?name query parameter or from a later
// join frame; until one arrives, game events from the connection are
// ignored.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HandleWebSocket] upgrade failed: %v", err)
		return
	}

	client := &Client{
		ID:   uuid.NewString(),
		Conn: conn,
	}
	s.hub.Register(client)
	log.Printf("[HandleWebSocket] %s connected", client.ID)

	joined := false
	if name := r.URL.Query().Get("name"); name != "" {
		s.session.Join(client.ID, name)
		joined = true
	}

	go s.readLoop(client, joined)
}

func (s *Server) readLoop(client *Client, joined bool) {
	defer func() {
		client.Conn.Close()
		s.hub.Unregister(client.ID)
		s.session.Leave(client.ID)
		log.Printf("[readLoop] %s disconnected", client.ID)
	}()

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			return
		}

		var msg game.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[readLoop] %s sent malformed frame: %v", client.ID, err)
			continue
		}

		if msg.Type == game.EventJoin {
			if joined {
				continue
			}
			var name string
			if err := json.Unmarshal(msg.Data, &name); err != nil {
				log.Printf("[readLoop] %s sent bad join payload: %v", client.ID, err)
				continue
			}
			s.session.Join(client.ID, name)
			joined = true
			continue
		}
		if !joined {
			continue
		}

		switch msg.Type {
		case game.EventChat:
			var data game.TextData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			s.session.Chat(client.ID, data.Text)
		case game.EventGuess:
			var data game.TextData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			s.session.Guess(client.ID, data.Text)
		case game.EventStroke:
			s.session.Stroke(client.ID, msg.Data)
		case game.EventClear:
			s.session.Clear(client.ID)
		case game.EventStartGame:
			s.session.Start(client.ID)
		case game.EventStopGame:
			s.session.Stop(client.ID)
		case game.EventLeaveGame:
			return
		default:
			log.Printf("[readLoop] %s sent unknown type %q", client.ID, msg.Type)
		}
	}
}

package server

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one connected participant. The mutex serializes writes;
// gorilla/websocket allows only one concurrent writer per connection.
type Client struct {
	ID   string
	Conn *websocket.Conn

	mu sync.Mutex
}

// SafeWriteJSON writes v to the connection, serialized against other
// writers.
func (c *Client) SafeWriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

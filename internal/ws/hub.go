package ws

import (
	"encoding/json"
	"log"
	"sync"

	"peakform/trainer-hub/internal/service"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 64

// Client is one websocket connection subscribed to its user's room.
type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub tracks rooms keyed by user id. Membership is mutated only on
// connect/disconnect; Publish fans events out to every connection in the
// recipient's room and drops them when nobody is subscribed.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Register adds a connection to the room named by its user id and starts its
// pumps.
func (h *Hub) Register(userID string, conn *websocket.Conn) *Client {
	client := &Client{
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[userID] = room
	}
	room[client] = struct{}{}
	h.mu.Unlock()

	return client
}

// Unregister removes a connection and closes its send channel. Empty rooms
// are dropped.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.userID]
	if !ok {
		return
	}
	if _, exists := room[client]; exists {
		delete(room, client)
		close(client.send)
	}
	if len(room) == 0 {
		delete(h.rooms, client.userID)
	}
}

// Publish implements service.Notifier. Events to absent rooms are dropped;
// connections with a full send buffer are skipped rather than blocked on.
func (h *Hub) Publish(userID string, event service.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("WARN: ws publish marshal: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[userID]
	if !ok {
		return
	}
	for client := range room {
		select {
		case client.send <- payload:
		default:
		}
	}
}

// RoomSize reports the number of connections in a user's room.
func (h *Hub) RoomSize(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// ReadPump drains the connection until it errors, then unregisters. Incoming
// frames are ignored: the channel is push-only, chat sends go over HTTP.
func (c *Client) ReadPump(hub *Hub) {
	defer func() {
		hub.Unregister(c)
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump forwards queued events to the connection until the send channel
// closes or a write fails.
func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
		_ = c.conn.Close()
	}()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

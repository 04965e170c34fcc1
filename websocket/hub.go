// websocket/hub.go
package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeFeedInvalidated  MessageType = "FEED_INVALIDATED"
	MessageTypeReportEvent      MessageType = "REPORT_EVENT"
	MessageTypeSubscribeFeeds   MessageType = "SUBSCRIBE_FEEDS"
	MessageTypeUnsubscribeFeeds MessageType = "UNSUBSCRIBE_FEEDS"
	MessageTypeError            MessageType = "ERROR"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
	Feed      string      `json:"feed,omitempty"`
}

// Client is one connected dashboard. An empty Feeds set means the client
// receives every feed event; subscribing narrows it down.
type Client struct {
	ID    uuid.UUID
	Email string
	Conn  *websocket.Conn
	Hub   *Hub
	Send  chan WebSocketMessage
	Feeds map[string]bool
	mu    sync.RWMutex
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan WebSocketMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan WebSocketMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.broadcastToAll(message)
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(message WebSocketMessage) {
	h.broadcast <- message
}

// BroadcastToFeed sends a message to clients interested in a specific feed.
// Clients that never subscribed to anything count as interested in all feeds.
func (h *Hub) BroadcastToFeed(feed string, message WebSocketMessage) {
	message.Feed = feed

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.wantsFeed(feed) {
			continue
		}
		select {
		case client.Send <- message:
		default:
			delete(h.clients, client)
			close(client.Send)
		}
	}
}

// broadcastToAll sends a message to all connected clients
func (h *Hub) broadcastToAll(message WebSocketMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			delete(h.clients, client)
			close(client.Send)
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscribeToFeed adds a feed to the client's subscription
func (c *Client) SubscribeToFeed(feed string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Feeds == nil {
		c.Feeds = make(map[string]bool)
	}
	c.Feeds[feed] = true
}

// UnsubscribeFromFeed removes a feed from the client's subscription
func (c *Client) UnsubscribeFromFeed(feed string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Feeds, feed)
}

// IsSubscribedToFeed checks an explicit subscription to a feed
func (c *Client) IsSubscribedToFeed(feed string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.Feeds[feed]
	return exists
}

func (c *Client) wantsFeed(feed string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.Feeds) == 0 {
		return true
	}
	return c.Feeds[feed]
}

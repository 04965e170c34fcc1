// websocket/handler.go
package websocket

import (
	"fmt"
	"strings"
	"time"

	"capsule-desk-backend/config"
	"capsule-desk-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService defines a token validator interface
type AuthService interface {
	VerifyToken(token string) (*token.Payload, error)
}

// WsHandler manages WebSocket requests and connections
type WsHandler struct {
	hub  *Hub
	auth AuthService
}

// NewWsHandler creates a new WebSocket handler instance
func NewWsHandler(hub *Hub, auth AuthService) *WsHandler {
	return &WsHandler{
		hub:  hub,
		auth: auth,
	}
}

// HandleWebSocket handles incoming WebSocket upgrade requests
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	// Check if it's a WebSocket connection
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	// SECURITY: Extract token from HTTPOnly cookie (not query parameter)
	tokenStr := c.Cookies("access_token")
	if tokenStr == "" {
		config.Logger.Warn("WebSocket connection attempted without access token cookie")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required - no access token cookie found",
		})
	}

	// Validate the token
	payload, err := h.auth.VerifyToken(tokenStr)
	if err != nil {
		config.Logger.Warn("Invalid access token for WebSocket",
			zap.Error(err),
		)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	// Optional initial subscription; no feeds parameter means "everything".
	initialFeeds := parseFeedList(c.Query("feeds"))

	config.Logger.Info("WebSocket connection authenticated",
		zap.String("email", payload.Email),
		zap.Int("subscribedFeeds", len(initialFeeds)),
	)

	// Upgrade to WebSocket using Fiber's websocket package
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:    uuid.New(),
			Email: payload.Email,
			Conn:  conn,
			Hub:   h.hub,
			Send:  make(chan WebSocketMessage, 256),
			Feeds: initialFeeds,
		}

		// Register client
		h.hub.register <- client

		config.Logger.Info("WebSocket client registered",
			zap.String("clientID", client.ID.String()),
			zap.String("email", client.Email),
		)

		// Start goroutines for this client
		go client.writePump()
		client.readPump()
	})(c)
}

// parseFeedList turns a comma-separated feeds query parameter into a
// subscription set.
func parseFeedList(raw string) map[string]bool {
	feeds := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name != "" {
			feeds[name] = true
		}
	}
	return feeds
}

// readPump listens for incoming messages from the WebSocket
func (c *Client) readPump() {
	defer func() {
		config.Logger.Info("WebSocket client disconnecting",
			zap.String("clientID", c.ID.String()),
			zap.String("email", c.Email),
		)
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	// Set connection limits
	c.Conn.SetReadLimit(512 * 1024) // 512KB max message size
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg WebSocketMessage
		err := c.Conn.ReadJSON(&msg)
		if err != nil {
			// Log the error for debugging
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Warn("WebSocket unexpected close",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
			}
			break
		}

		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now()
		}

		config.Logger.Debug("WebSocket message received",
			zap.String("clientID", c.ID.String()),
			zap.String("type", string(msg.Type)),
		)

		switch msg.Type {
		case MessageTypeSubscribeFeeds:
			c.handleSubscription(msg, true)
		case MessageTypeUnsubscribeFeeds:
			c.handleSubscription(msg, false)
		default:
			config.Logger.Warn("Unknown WebSocket message type",
				zap.String("type", string(msg.Type)),
				zap.String("clientID", c.ID.String()),
			)
			c.sendError("Unknown message type: " + string(msg.Type))
		}
	}
}

// writePump sends queued messages and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				config.Logger.Debug("WebSocket write error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			// Send ping to keep connection alive
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				config.Logger.Debug("WebSocket ping error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}
		}
	}
}

// handleSubscription processes feed subscribe/unsubscribe requests
func (c *Client) handleSubscription(msg WebSocketMessage, subscribe bool) {
	payload, ok := msg.Payload.(map[string]interface{})
	if !ok {
		c.sendError("Invalid subscription payload")
		return
	}

	rawFeeds, ok := payload["feeds"].([]interface{})
	if !ok {
		c.sendError("Missing feeds list in subscription payload")
		return
	}

	var applied []string
	for _, raw := range rawFeeds {
		name, ok := raw.(string)
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if subscribe {
			c.SubscribeToFeed(name)
		} else {
			c.UnsubscribeFromFeed(name)
		}
		applied = append(applied, name)
	}

	config.Logger.Debug("WebSocket subscription updated",
		zap.String("clientID", c.ID.String()),
		zap.Bool("subscribe", subscribe),
		zap.Strings("feeds", applied),
	)
}

// sendError sends an error message back to the client
func (c *Client) sendError(message string) {
	errorMsg := WebSocketMessage{
		Type: MessageTypeError,
		Payload: map[string]interface{}{
			"message": message,
		},
		Timestamp: time.Now(),
	}

	c.Send <- errorMsg
}

// SendMessage sends a message to this specific client
func (c *Client) SendMessage(msg WebSocketMessage) error {
	select {
	case c.Send <- msg:
		return nil
	default:
		return fmt.Errorf("client send channel is full")
	}
}

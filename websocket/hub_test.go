package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient builds a client without a network connection; the hub only ever
// touches Send and the subscription set.
func testClient(feeds ...string) *Client {
	c := &Client{
		ID:   uuid.New(),
		Send: make(chan WebSocketMessage, 8),
	}
	for _, feed := range feeds {
		c.SubscribeToFeed(feed)
	}
	return c
}

func receiveMessage(t *testing.T, c *Client) WebSocketMessage {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return WebSocketMessage{}
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.Send:
		t.Fatalf("unexpected message: %+v", msg)
	default:
	}
}

func TestRegisterAndUnregisterThroughRunLoop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := testClient()
	hub.register <- client
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 },
		time.Second, 5*time.Millisecond)

	hub.unregister <- client
	require.Eventually(t, func() bool { return hub.GetClientCount() == 0 },
		time.Second, 5*time.Millisecond)

	// The hub closed the send channel on the way out.
	_, open := <-client.Send
	assert.False(t, open)
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := testClient()
	second := testClient()
	hub.register <- first
	hub.register <- second
	require.Eventually(t, func() bool { return hub.GetClientCount() == 2 },
		time.Second, 5*time.Millisecond)

	hub.Broadcast(WebSocketMessage{
		Type:      MessageTypeReportEvent,
		Payload:   map[string]interface{}{"status": "sent"},
		Timestamp: time.Now(),
	})

	assert.Equal(t, MessageTypeReportEvent, receiveMessage(t, first).Type)
	assert.Equal(t, MessageTypeReportEvent, receiveMessage(t, second).Type)
}

func TestBroadcastToFeedTargetsSubscribers(t *testing.T) {
	hub := NewHub()
	guestsWatcher := testClient("guests")
	tokensWatcher := testClient("tokens")
	watchesEverything := testClient()

	hub.clients[guestsWatcher] = true
	hub.clients[tokensWatcher] = true
	hub.clients[watchesEverything] = true

	hub.BroadcastToFeed("guests", WebSocketMessage{
		Type:      MessageTypeFeedInvalidated,
		Payload:   map[string]interface{}{"feed": "guests"},
		Timestamp: time.Now(),
	})

	got := receiveMessage(t, guestsWatcher)
	assert.Equal(t, MessageTypeFeedInvalidated, got.Type)
	assert.Equal(t, "guests", got.Feed)

	// An empty subscription set means everything.
	assert.Equal(t, "guests", receiveMessage(t, watchesEverything).Feed)

	assertNoMessage(t, tokensWatcher)
}

func TestBroadcastToFeedDropsClientsWithFullBuffers(t *testing.T) {
	hub := NewHub()
	stuck := &Client{ID: uuid.New(), Send: make(chan WebSocketMessage)}
	hub.clients[stuck] = true

	hub.BroadcastToFeed("guests", WebSocketMessage{
		Type:      MessageTypeFeedInvalidated,
		Timestamp: time.Now(),
	})

	assert.Equal(t, 0, hub.GetClientCount())
	_, open := <-stuck.Send
	assert.False(t, open)
}

func TestSubscriptionLifecycle(t *testing.T) {
	client := testClient()

	assert.False(t, client.IsSubscribedToFeed("guests"))

	client.SubscribeToFeed("guests")
	client.SubscribeToFeed("occupancy")
	assert.True(t, client.IsSubscribedToFeed("guests"))
	assert.True(t, client.IsSubscribedToFeed("occupancy"))

	client.UnsubscribeFromFeed("guests")
	assert.False(t, client.IsSubscribedToFeed("guests"))
	assert.True(t, client.IsSubscribedToFeed("occupancy"))
}

func TestNarrowedClientMissesOtherFeeds(t *testing.T) {
	hub := NewHub()
	narrowed := testClient("tokens")
	hub.clients[narrowed] = true

	hub.BroadcastToFeed("guests", WebSocketMessage{Type: MessageTypeFeedInvalidated, Timestamp: time.Now()})
	assertNoMessage(t, narrowed)

	hub.BroadcastToFeed("tokens", WebSocketMessage{Type: MessageTypeFeedInvalidated, Timestamp: time.Now()})
	assert.Equal(t, "tokens", receiveMessage(t, narrowed).Feed)
}

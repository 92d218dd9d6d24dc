package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Topics content events are published under.
const (
	TopicProjects     = "projects"
	TopicTechnologies = "technologies"
	// TopicAll receives every event.
	TopicAll = "all"
)

// Event is a content change pushed to subscribers, e.g. "project.updated".
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client is a subscriber's inbox. The SSE handler drains it.
type Client chan []byte

// ClientBuffer is the inbox size used by NewClient.
const ClientBuffer = 16

// NewClient returns a buffered inbox.
func NewClient() Client {
	return make(Client, ClientBuffer)
}

// Hub fans content events out to subscribers grouped by topic.
type Hub struct {
	topics map[string]map[Client]bool
	mu     sync.RWMutex
}

// GlobalHub is the hub shared by the admin handlers and the event stream.
var GlobalHub = NewHub()

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[Client]bool),
	}
}

// KnownTopic reports whether clients may subscribe to topic.
func KnownTopic(topic string) bool {
	switch topic {
	case TopicProjects, TopicTechnologies, TopicAll:
		return true
	}
	return false
}

// Subscribe adds client to topic.
func (h *Hub) Subscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Client]bool)
	}
	h.topics[topic][client] = true
}

// Unsubscribe removes client from topic and closes it.
func (h *Hub) Unsubscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.topics[topic]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client)
	if len(clients) == 0 {
		delete(h.topics, topic)
	}
}

// Subscribers counts the clients on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast sends event to every client on topic and on TopicAll. Clients
// with a full inbox miss the event.
func (h *Hub) Broadcast(topic string, event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode hub event", "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered, dropped := 0, 0
	send := func(clients map[Client]bool) {
		for client := range clients {
			select {
			case client <- msg:
				delivered++
			default:
				dropped++
			}
		}
	}
	send(h.topics[topic])
	if topic != TopicAll {
		send(h.topics[TopicAll])
	}
	if dropped > 0 {
		slog.Warn("hub event dropped for slow clients", "topic", topic, "type", event.Type, "dropped", dropped, "delivered", delivered)
	}
}

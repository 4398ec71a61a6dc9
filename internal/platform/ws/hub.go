// Package ws relays store-change events to connected browser tabs so
// every portal view converges on the same data. Clients subscribe to
// view paths and receive the events that invalidate them.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nexushealth/nexus/internal/platform/events"
)

// ClientMessage is an inbound subscription change from a tab.
type ClientMessage struct {
	Action string   `json:"action"`
	Views  []string `json:"views"`
}

// Client represents a single connected tab.
type Client struct {
	ID    string
	Views []string
	Send  chan []byte
}

// Hub tracks connected tabs and their view subscriptions.
type Hub struct {
	logger zerolog.Logger

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // view path -> subscribers
	all     map[*Client]struct{}
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:  logger.With().Str("component", "ws").Logger(),
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
	}
}

// Register adds a client and subscribes it to its initial views.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}
	for _, view := range client.Views {
		if h.clients[view] == nil {
			h.clients[view] = make(map[*Client]struct{})
		}
		h.clients[view][client] = struct{}{}
	}
}

// Unregister removes a client from every view and closes its channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	for _, view := range client.Views {
		if subs, ok := h.clients[view]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.clients, view)
			}
		}
	}
	delete(h.all, client)
	close(client.Send)
}

// Subscribe adds views to an already-registered client.
func (h *Hub) Subscribe(client *Client, views []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, view := range views {
		if h.clients[view] == nil {
			h.clients[view] = make(map[*Client]struct{})
		}
		h.clients[view][client] = struct{}{}
	}
	client.Views = append(client.Views, views...)
}

// Unsubscribe removes views from an already-registered client.
func (h *Hub) Unsubscribe(client *Client, views []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	removeSet := make(map[string]struct{}, len(views))
	for _, v := range views {
		removeSet[v] = struct{}{}
	}

	for _, view := range views {
		if subs, ok := h.clients[view]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.clients, view)
			}
		}
	}

	remaining := make([]string, 0, len(client.Views))
	for _, v := range client.Views {
		if _, rm := removeSet[v]; !rm {
			remaining = append(remaining, v)
		}
	}
	client.Views = remaining
}

// ProcessMessage dispatches an inbound subscription change.
func (h *Hub) ProcessMessage(client *Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		h.Subscribe(client, msg.Views)
	case "unsubscribe":
		h.Unsubscribe(client, msg.Views)
	}
}

// Broadcast delivers a store event to every tab watching one of the
// invalidated views. Reset events go to all tabs. Slow tabs miss
// events rather than blocking the hub.
func (h *Hub) Broadcast(e events.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal store event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if e.Type == events.TypeReset {
		for client := range h.all {
			send(client, data)
		}
		return
	}

	delivered := make(map[*Client]struct{})
	for _, view := range e.Views {
		for client := range h.clients[view] {
			if _, done := delivered[client]; done {
				continue
			}
			delivered[client] = struct{}{}
			send(client, data)
		}
	}
}

func send(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
	}
}

// ClientCount returns the number of connected tabs.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// ViewCount returns the number of tabs watching a view.
func (h *Hub) ViewCount(view string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[view])
}

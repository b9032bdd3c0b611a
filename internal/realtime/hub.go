// Package realtime fans stand changes out to websocket clients of the same
// organization.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

type EventType string

const (
	StandUpdated EventType = "stand.updated"
	StandDeleted EventType = "stand.deleted"
	AlertRaised  EventType = "alert.raised"
)

type Event struct {
	Type    EventType `json:"type"`
	StandID string    `json:"standId"`
	Status  string    `json:"status,omitempty"`
	Data    any       `json:"data,omitempty"`
	At      time.Time `json:"at"`
}

const sendBuffer = 32

// Client is one subscriber. Messages are JSON encoded events.
type Client struct {
	orgID string
	send  chan []byte
}

func (c *Client) Messages() <-chan []byte { return c.send }

type envelope struct {
	orgID   string
	payload []byte
}

type Hub struct {
	clients    map[string]map[*Client]struct{}
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 64),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for orgID, set := range h.clients {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, orgID)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.orgID] == nil {
				h.clients[c.orgID] = make(map[*Client]struct{})
			}
			h.clients[c.orgID][c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()
		case env := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients[env.orgID] {
				select {
				case c.send <- env.payload:
				default:
					zap.L().Warn("dropping slow realtime client", zap.String("organization_id", c.orgID))
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.orgID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.orgID)
	}
}

// Subscribe registers a client for orgID. It returns nil once the hub has
// stopped.
func (h *Hub) Subscribe(orgID string) *Client {
	c := &Client{orgID: orgID, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
		return c
	case <-h.done:
		return nil
	}
}

func (h *Hub) Unsubscribe(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues ev for every client of orgID. It never blocks; events are
// dropped when the hub is saturated.
func (h *Hub) Publish(orgID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		zap.L().Error("failed to encode realtime event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- envelope{orgID: orgID, payload: payload}:
	default:
		zap.L().Warn("realtime hub saturated, dropping event", zap.String("organization_id", orgID), zap.String("type", string(ev.Type)))
	}
}

func (h *Hub) ClientCount(orgID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[orgID])
}

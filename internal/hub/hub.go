// Package hub streams refresh events to SSE clients. Broadcasting never
// blocks the refresh loop: slow clients miss events instead of applying
// backpressure.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

const keepaliveInterval = 30 * time.Second

type client struct {
	id     string
	events chan []byte
}

// Hub fans broadcast events out to connected SSE clients.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	broadcast chan interface{}
}

// New creates a hub; call Run to start its dispatch loop.
func New() *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		broadcast: make(chan interface{}, 256),
	}
}

// Run dispatches broadcasts until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("Failed to marshal event: %v", err)
				continue
			}
			msg := append(append([]byte("data: "), data...), '\n', '\n')

			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.events <- msg:
				default:
					log.Printf("SSE client %s is slow, skipping event", c.id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for delivery to all clients. Never blocks;
// the event is dropped when the queue is full.
func (h *Hub) Broadcast(event interface{}) {
	select {
	case h.broadcast <- event:
	default:
		log.Println("Broadcast queue full, dropping event")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("SSE client connected: %s (total: %d)", c.id, n)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("SSE client disconnected: %s (total: %d)", c.id, n)
}

// ServeHTTP handles one SSE connection until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	c := &client{
		id:     r.RemoteAddr,
		events: make(chan []byte, 64),
	}
	h.add(c)
	defer h.remove(c)

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.events:
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

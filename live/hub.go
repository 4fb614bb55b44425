package live

import (
	"context"
	"log"
	"sync"

	"mathwizard/game"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxTotalConns = 64
	backlogSize   = 128
)

// Hub fans game events out to connected spectators.
// It implements game.EventSink and never blocks the game loop.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// Recent encoded events, replayed to late joiners (guarded by mu)
	backlog [][]byte
}

// NewHub creates an empty hub; call Run to start it
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		done:       make(chan struct{}),
	}
}

// Run processes register/unregister events until ctx is cancelled, then
// closes every spectator connection
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			for _, msg := range h.backlog {
				client.SendBinary(msg)
			}
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	close(h.done)
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// join hands a new client to Run; false once the hub has stopped
func (h *Hub) join(c *Client) bool {
	// register is buffered, so a stopped hub has to be checked first
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// CanAccept reports whether another spectator fits
func (h *Hub) CanAccept() bool {
	return h.Clients() < maxTotalConns
}

// Clients returns the number of registered spectators
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Emit encodes ev with msgpack and queues it for every spectator
func (h *Hub) Emit(ev game.Event) {
	data, err := msgpack.Marshal(&ev)
	if err != nil {
		log.Printf("msgpack marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if ev.Kind == game.EventWaveStarted && ev.Value == 1 {
		// A fresh game makes the old backlog meaningless
		h.backlog = h.backlog[:0]
	}
	h.backlog = append(h.backlog, data)
	if len(h.backlog) > backlogSize {
		h.backlog = h.backlog[len(h.backlog)-backlogSize:]
	}

	for c := range h.clients {
		c.SendBinary(data)
	}
}

package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Message envelope sent to every client. Type identifies the payload
// ("run:snapshot", "connection", ...); Data carries it.
type Message struct {
	Type      string `json:"type"`
	Channel   string `json:"channel,omitempty"`
	Action    string `json:"action,omitempty"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Message type constants shared with the browser client.
const (
	TypeConnection = "connection"
	TypeError      = "error"
)

// Hub maintains the set of connected clients and fans broadcast
// messages out to all of them. One Hub serves the whole process.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	logger  *slog.Logger
	quit    chan struct{}
	running bool
}

// NewHub creates a hub. Call Start before serving connections.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
}

// Start launches the hub loop. Safe to call more than once.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			connectionsTotal.Inc()
			connectionsActive.Set(float64(count))

			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

			h.greet(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()

				connectionsActive.Set(float64(count))
				h.logger.Info("client unregistered",
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", count))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// greet sends the connection acknowledgement to a newly registered
// client without blocking the hub loop.
func (h *Hub) greet(client *Client) {
	msg := Message{
		Type: TypeConnection,
		Data: map[string]any{
			"status":    "connected",
			"client_id": client.id,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case client.send <- data:
		messagesSent.Inc()
	default:
		messagesDropped.Inc()
	}
}

func (h *Hub) deliver(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	failed := 0
	for _, client := range clients {
		select {
		case client.send <- message:
			messagesSent.Inc()
		default:
			// Slow consumer: drop the client rather than stall
			// everyone else.
			failed++
			messagesDropped.Inc()
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Warn("client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}

	if failed > 0 {
		h.mu.RLock()
		connectionsActive.Set(float64(len(h.clients)))
		h.mu.RUnlock()
	}
}

// BroadcastUpdate sends a typed message to all connected clients. It
// satisfies the operations package's hub contract, so run snapshots
// flow straight from the step executor to every open socket.
func (h *Hub) BroadcastUpdate(eventType, channel, action string, data any) {
	msg := Message{
		Type:      eventType,
		Channel:   channel,
		Action:    action,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshaling broadcast message",
			slog.String("type", eventType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.quit:
	}
}

// BroadcastError sends a structured error notification.
func (h *Hub) BroadcastError(code, message string) {
	h.BroadcastUpdate(TypeError, "", "", map[string]any{
		"code":    code,
		"message": message,
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop shuts the hub down and disconnects every client.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	connectionsActive.Set(0)
}

// Register queues a client for registration with the hub loop.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	ws "tabiq/internal/websocket"
)

// WebSocketHandler upgrades connections and hands them to the hub.
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler creates the websocket handler. checkOrigin of nil
// accepts same-origin requests only.
func NewWebSocketHandler(hub *ws.Hub, checkOrigin func(r *http.Request) bool, readBufferSize, writeBufferSize int, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin:     checkOrigin,
		},
		logger: logger.With(slog.String("component", "websocket_handler")),
	}
}

// ServeHTTP upgrades the request and registers the client with the hub.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own error response; just log.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		return
	}

	ws.ServeWS(h.hub, conn, h.logger)
}

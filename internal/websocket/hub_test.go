package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockConn implements Connection for tests. Written messages are
// recorded; reads block until closed unless frames are queued.
type mockConn struct {
	mu      sync.Mutex
	written [][]byte
	reads   chan []byte
	closed  bool
}

func newMockConn() *mockConn {
	return &mockConn{reads: make(chan []byte, 16)}
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("connection closed")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.written = append(m.written, cp)
	return nil
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	data, ok := <-m.reads
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, data, nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.reads)
	}
	return nil
}

func (m *mockConn) SetReadDeadline(time.Time) error  { return nil }
func (m *mockConn) SetWriteDeadline(time.Time) error { return nil }
func (m *mockConn) SetReadLimit(int64)               {}
func (m *mockConn) SetPongHandler(func(string) error) {}
func (m *mockConn) RemoteAddr() string               { return "127.0.0.1:0" }

func (m *mockConn) writtenMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.written))
	copy(out, m.written)
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewHub(t *testing.T) {
	hub := NewHub(testLogger())

	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.Equal(t, 0, hub.ClientCount())
	assert.False(t, hub.running)
}

func TestHubStartStop(t *testing.T) {
	hub := NewHub(testLogger())

	hub.Start()
	assert.True(t, hub.running)

	// Idempotent.
	hub.Start()
	assert.True(t, hub.running)

	hub.Stop()
	assert.False(t, hub.running)
	hub.Stop()
	assert.False(t, hub.running)
}

func TestHubClientRegistration(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	conn := newMockConn()
	client := NewClientWithConnection(hub, conn, testLogger())
	hub.Register(client)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	// Newly registered clients receive a connection acknowledgement.
	require.Eventually(t, func() bool {
		return len(client.send) == 1
	}, time.Second, 5*time.Millisecond)

	greeting := <-client.send
	var msg Message
	require.NoError(t, json.Unmarshal(greeting, &msg))
	assert.Equal(t, TypeConnection, msg.Type)

	hub.unregister <- client
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestHubBroadcastUpdate(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	conns := make([]*mockConn, 3)
	for i := range conns {
		conns[i] = newMockConn()
		client := NewClientWithConnection(hub, conns[i], testLogger())
		hub.Register(client)
		go client.WritePump()
	}

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 3
	}, time.Second, 5*time.Millisecond)

	hub.BroadcastUpdate("run:snapshot", "run-1", "update", map[string]any{
		"status":   "running",
		"progress": 40.0,
	})

	for _, conn := range conns {
		conn := conn
		require.Eventually(t, func() bool {
			for _, raw := range conn.writtenMessages() {
				var msg Message
				if json.Unmarshal(raw, &msg) == nil && msg.Type == "run:snapshot" {
					return true
				}
			}
			return false
		}, time.Second, 5*time.Millisecond)
	}
}

func TestHubBroadcastEnvelope(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	conn := newMockConn()
	client := NewClientWithConnection(hub, conn, testLogger())
	hub.Register(client)
	go client.WritePump()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastError("chart_unsupported", "unsupported chart type")

	var got Message
	require.Eventually(t, func() bool {
		for _, raw := range conn.writtenMessages() {
			var msg Message
			if json.Unmarshal(raw, &msg) == nil && msg.Type == TypeError {
				got = msg
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	data, ok := got.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "chart_unsupported", data["code"])
	assert.NotEmpty(t, got.Timestamp)
}

func TestHubSlowConsumerDisconnected(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	conn := newMockConn()
	client := NewClientWithConnection(hub, conn, testLogger())
	// No WritePump: the send buffer fills up and the hub must drop the
	// client instead of blocking.
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBufferSize+8; i++ {
		hub.BroadcastUpdate("run:snapshot", "run-1", "update", map[string]any{"seq": i})
	}

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestHubStopDisconnectsClients(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()

	conn := newMockConn()
	client := NewClientWithConnection(hub, conn, testLogger())
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Stop()
	assert.Equal(t, 0, hub.ClientCount())

	// The send channel is closed so the write pump exits.
	_, ok := <-drain(client.send)
	assert.False(t, ok)
}

func drain(ch chan []byte) chan []byte {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				out := make(chan []byte)
				close(out)
				return out
			}
		default:
			return ch
		}
	}
}

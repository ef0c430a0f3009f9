package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientWithConnection(t *testing.T) {
	hub := NewHub(testLogger())
	conn := newMockConn()

	client := NewClientWithConnection(hub, conn, testLogger())

	assert.NotEmpty(t, client.id)
	assert.Equal(t, "127.0.0.1:0", client.remoteAddr)
	assert.NotNil(t, client.send)
	assert.Equal(t, sendBufferSize, cap(client.send))
}

func TestClientWritePumpDeliversMessages(t *testing.T) {
	hub := NewHub(testLogger())
	conn := newMockConn()
	client := NewClientWithConnection(hub, conn, testLogger())

	done := make(chan struct{})
	go func() {
		client.WritePump()
		close(done)
	}()

	client.send <- []byte(`{"type":"run:snapshot"}`)
	require.Eventually(t, func() bool {
		return len(conn.writtenMessages()) >= 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, `{"type":"run:snapshot"}`, string(conn.writtenMessages()[0]))

	// Closing the send channel stops the pump.
	close(client.send)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not exit after send channel closed")
	}
}

func TestClientReadPumpUnregistersOnError(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	conn := newMockConn()
	client := NewClientWithConnection(hub, conn, testLogger())
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	go client.ReadPump()

	// Heartbeats are consumed without effect.
	conn.reads <- []byte(`{"type":"heartbeat"}`)

	// A closed connection ends the pump and unregisters the client.
	conn.Close()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)
}

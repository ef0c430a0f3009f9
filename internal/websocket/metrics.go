package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabiq_websocket_connections_total",
		Help: "Total websocket connections accepted.",
	})
	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tabiq_websocket_connections_active",
		Help: "Currently connected websocket clients.",
	})
	messagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabiq_websocket_messages_sent_total",
		Help: "Messages delivered to websocket clients.",
	})
	messagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabiq_websocket_messages_received_total",
		Help: "Messages received from websocket clients.",
	})
	messagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabiq_websocket_messages_dropped_total",
		Help: "Messages dropped because a client or the hub queue was full.",
	})
)

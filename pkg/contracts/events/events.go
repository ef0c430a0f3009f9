// Package events defines the websocket protocol shared with browser
// clients: message types, channel names, and the envelope layout.
package events

import "time"

// Message types. RunSnapshot is the only type used for pipeline
// progress; every run update is a full snapshot, never a delta.
const (
	TypeConnection  = "connection"
	TypeRunSnapshot = "run:snapshot"
	TypeError       = "error"
)

// Channel names. Run events go out on the run ID as channel; these are
// the fixed channels.
const (
	ChannelGlobal = "global"
	ChannelSystem = "system"
)

// Actions carried alongside run snapshots.
const (
	ActionUpdate = "update"
)

// Envelope is the wire layout of every websocket message. Type says what
// happened, Channel scopes it (a run ID for run events), and Data carries
// the payload.
type Envelope struct {
	Type      string    `json:"type"`
	Channel   string    `json:"channel,omitempty"`
	Action    string    `json:"action,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorPayload is the Data of a TypeError message.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Package websocket relays analysis-run progress to browser clients.
//
// A single Hub fans broadcast messages out to every connected client.
// Each client runs a read pump and a write pump; pings keep idle
// connections alive and slow consumers are disconnected rather than
// allowed to stall the hub. The Hub satisfies the operations package's
// broadcast contract, so run snapshots flow straight from the step
// executor to every open socket.
package websocket

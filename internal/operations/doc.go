// Package operations orchestrates analysis runs over an in-memory table.
//
// A run executes a fixed set of steps (quality diagnostics, insight
// generation, chart suggestion) against one table and collects their
// reports. The package is the seam between the pure engine packages and
// the transport layer:
//
//   - Step: a single unit of analysis work with an ID, a display name,
//     and a Run method that reads the table from the RunState and stores
//     its result back into it.
//   - Manager: executes the registered steps sequentially (default) or
//     concurrently, applies per-step timeouts and retry policy, and
//     publishes progress events through a Broadcaster after every state
//     change.
//   - RunStore: uuid-keyed in-memory store of run states, queried by the
//     status endpoint and pruned periodically.
//   - StatusBroadcaster: serializes events into per-run snapshots and
//     relays them to the websocket hub.
//
// Engine packages stay free of logging and I/O; all observability
// (slog, OpenTelemetry spans, websocket events) lives here.
package operations

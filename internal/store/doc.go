// Package store persists agent messages and answers the queries the rest
// of the hub is built on: the append path for every frame that arrives,
// and the catch-up scan that reconnect replay and the SSE feed poll.
//
// # Backends
//
// Two implementations of the Store interface ship with the hub:
//
//   - SQLiteStore (modernc.org/sqlite, pure Go, WAL mode) for single-node
//     deployments and tests. Timestamps are stored as integer unix
//     microseconds so ordering is a plain integer comparison.
//   - PostgresStore (pgx stdlib driver) for shared deployments. Timestamps
//     are stored as timestamptz.
//
// MockStore is an in-memory equivalent for unit tests, with error
// injection for exercising failure paths.
//
// # Server-assigned timestamps
//
// Append ignores whatever id or timestamp the caller put on the message
// and assigns both: a fresh UUID and a timestamp from the store's
// monotonic guard. The guard hands out UTC times truncated to
// microseconds and guarantees each is strictly greater than the last,
// stepping forward by one microsecond when the wall clock stalls or goes
// backwards. On startup the guard is seeded from the newest persisted
// row, so the guarantee holds across restarts too.
//
// Strict monotonicity is what makes (timestamp, message_id) a total order
// and lets replay use a plain high-water mark as its cursor.
//
// # The catch-up scan
//
// ScanAfter(agentID, after) returns, oldest first, every message the
// agent should see that landed after the given time: messages addressed
// to it, messages with no recipient, and broadcasts and events from
// anyone else. The agent's own sends are never returned. Both live
// delivery and replay produce the same stream because both are defined
// in terms of this predicate.
package store

// Package recorder persists every inbound server message of a client session
// to PostgreSQL.
//
// A Recorder subscribes to the client's "message" event, buffers rows in a
// bounded channel and writes them in batches, flushing when a batch fills up
// and on a fixed interval. Rows are append-only. When the buffer is full new
// messages are dropped and counted rather than blocking event dispatch.
package recorder

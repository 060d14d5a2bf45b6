// Package database provides PostgreSQL connection pool management for the
// message recorder.
//
// Recorded sessions live in a single table:
//
//	shoehive_messages(session_id, client_id, received_at, type, payload jsonb)
package database

package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is one recorded message.
type Row struct {
	SessionID  uuid.UUID
	ClientID   uuid.UUID
	ReceivedAt time.Time
	Type       string
	Payload    []byte // JSON object
}

// Store writes batches of rows.
type Store interface {
	InsertBatch(ctx context.Context, rows []Row) error
}

// PgStore writes rows to the shoehive_messages table.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

// InsertBatch inserts rows using pgx.Batch.
func (s *PgStore) InsertBatch(ctx context.Context, rows []Row) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO shoehive_messages (session_id, client_id, received_at, type, payload)
			VALUES ($1, $2, $3, $4, $5)
		`, r.SessionID, r.ClientID, r.ReceivedAt, r.Type, r.Payload)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

package recorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

// Config holds recorder settings.
type Config struct {
	BatchSize     int           // Max rows per insert batch
	FlushInterval time.Duration // Max time a row waits before being flushed
	BufferSize    int           // Capacity of the inbound queue
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     500,
		FlushInterval: time.Second,
		BufferSize:    10000,
	}
}

// Stats holds recorder counters.
type Stats struct {
	Received int64 // Messages accepted into the queue
	Dropped  int64 // Messages dropped because the queue was full
	Inserts  int64 // Rows written
	Flushes  int64 // Successful batch writes
	Errors   int64 // Failed batch writes
}

// Recorder batches inbound messages into a Store.
type Recorder struct {
	cfg       Config
	logger    *slog.Logger
	store     Store
	sessionID uuid.UUID
	clientID  uuid.UUID

	input chan Row

	// Batching
	batch       []Row
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	unsubscribe func()

	// Metrics
	metrics Stats
}

// New creates a Recorder writing to store. Each Recorder is one session.
func New(cfg Config, store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.BatchSize < 1 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaults.FlushInterval
	}
	if cfg.BufferSize < 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	sessionID := uuid.New()
	return &Recorder{
		cfg:       cfg,
		logger:    logger.With("session_id", sessionID),
		store:     store,
		sessionID: sessionID,
		input:     make(chan Row, cfg.BufferSize),
		batch:     make([]Row, 0, cfg.BatchSize),
	}
}

// SessionID identifies the rows written by this recorder.
func (r *Recorder) SessionID() uuid.UUID {
	return r.sessionID
}

// Attach subscribes the recorder to every message received by c.
// Stop detaches it.
func (r *Recorder) Attach(c *shoehive.Client) {
	if id, err := uuid.Parse(c.ID()); err == nil {
		r.clientID = id
	}
	r.unsubscribe = c.On(shoehive.EventMessage, func(payload any) {
		if msg, ok := payload.(shoehive.Message); ok {
			r.Record(msg)
		}
	})
}

// Record queues msg for persistence. It never blocks.
func (r *Recorder) Record(msg shoehive.Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		r.logger.Warn("cannot encode message", "type", msg.Type(), "error", err)
		return
	}

	row := Row{
		SessionID:  r.sessionID,
		ClientID:   r.clientID,
		ReceivedAt: time.Now().UTC(),
		Type:       msg.Type(),
		Payload:    payload,
	}

	select {
	case r.input <- row:
		r.batchMu.Lock()
		r.metrics.Received++
		r.batchMu.Unlock()
	default:
		r.batchMu.Lock()
		r.metrics.Dropped++
		r.batchMu.Unlock()
		r.logger.Warn("recorder buffer full, dropping message", "type", row.Type)
	}
}

// Start begins consuming queued messages and writing them to the store.
func (r *Recorder) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.flushTicker = time.NewTicker(r.cfg.FlushInterval)

	r.wg.Add(1)
	go r.consumeLoop()

	r.wg.Add(1)
	go r.flushLoop()

	r.logger.Info("recorder started",
		"batch_size", r.cfg.BatchSize,
		"flush_interval", r.cfg.FlushInterval,
	)
	return nil
}

// Stop detaches from the client, drains the queue and flushes what remains.
func (r *Recorder) Stop(ctx context.Context) error {
	r.logger.Info("stopping recorder")

	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	if r.cancel != nil {
		r.cancel()
	}
	if r.flushTicker != nil {
		r.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		r.logger.Warn("recorder stop timed out")
	}

	r.drain(ctx)
	r.flush(ctx)

	r.logger.Info("recorder stopped", "inserts", r.Stats().Inserts)
	return nil
}

// Stats returns current metrics.
func (r *Recorder) Stats() Stats {
	r.batchMu.Lock()
	defer r.batchMu.Unlock()
	return r.metrics
}

func (r *Recorder) consumeLoop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case row := <-r.input:
			r.add(r.ctx, row)
		}
	}
}

func (r *Recorder) flushLoop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.flushTicker.C:
			r.flush(r.ctx)
		}
	}
}

// drain moves rows still queued after shutdown into batches.
func (r *Recorder) drain(ctx context.Context) {
	for {
		select {
		case row := <-r.input:
			r.add(ctx, row)
		default:
			return
		}
	}
}

func (r *Recorder) add(ctx context.Context, row Row) {
	r.batchMu.Lock()
	r.batch = append(r.batch, row)
	shouldFlush := len(r.batch) >= r.cfg.BatchSize
	r.batchMu.Unlock()

	if shouldFlush {
		r.flush(ctx)
	}
}

// flush writes the current batch to the store.
func (r *Recorder) flush(ctx context.Context) {
	r.batchMu.Lock()
	if len(r.batch) == 0 {
		r.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := r.batch
	r.batch = make([]Row, 0, r.cfg.BatchSize)
	r.batchMu.Unlock()

	start := time.Now()

	if err := r.store.InsertBatch(ctx, batch); err != nil {
		r.logger.Error("batch insert failed", "error", err, "count", len(batch))
		r.batchMu.Lock()
		r.metrics.Errors++
		r.batchMu.Unlock()
		return
	}

	r.batchMu.Lock()
	r.metrics.Inserts += int64(len(batch))
	r.metrics.Flushes++
	r.batchMu.Unlock()

	r.logger.Debug("flushed messages",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

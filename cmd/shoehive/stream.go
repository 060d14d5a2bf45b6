package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/shoehive-client/internal/config"
	"github.com/rickgao/shoehive-client/internal/database"
	"github.com/rickgao/shoehive-client/internal/recorder"
	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

var (
	errConnectFailed   = errors.New("connect failed")
	errReconnectFailed = errors.New("gave up reconnecting")
	errConnectionLost  = errors.New("connection lost")
)

func runStream(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, client, err := setup(cmd)
	if err != nil {
		return err
	}

	verbose := cmd.Bool("verbose")
	out := cmd.Root().Writer

	view := watchSession(client)
	defer view.Close()

	client.On(shoehive.EventMessage, func(p any) {
		if msg, ok := p.(shoehive.Message); ok {
			printMessage(out, msg, verbose)
		}
	})
	client.On(shoehive.EventError, func(p any) {
		logger.Warn("client error", "error", p)
	})

	failed := make(chan shoehive.ReconnectFailedEvent, 1)
	client.On(shoehive.EventReconnectFailed, func(p any) {
		ev, _ := p.(shoehive.ReconnectFailedEvent)
		select {
		case failed <- ev:
		default:
		}
	})

	// Without auto-reconnect the first drop is final.
	dropped := make(chan shoehive.DisconnectEvent, 1)
	if !cfg.ClientOptions().AutoReconnect {
		client.On(shoehive.EventDisconnected, func(p any) {
			ev, _ := p.(shoehive.DisconnectEvent)
			select {
			case dropped <- ev:
			default:
			}
		})
	}

	rec, closeRecorder, err := startRecorder(ctx, cfg, client, logger)
	if err != nil {
		return err
	}
	defer closeRecorder()

	if !client.Connect() {
		return errConnectFailed
	}

	g, gctx := errgroup.WithContext(ctx)

	// Shutdown
	g.Go(func() error {
		<-gctx.Done()
		client.Disconnect()
		return nil
	})

	// Reconnect exhaustion or a final drop ends the session
	g.Go(func() error {
		select {
		case ev := <-failed:
			logger.Error("reconnect attempts exhausted", "attempts", ev.Attempts)
			return errReconnectFailed
		case ev := <-dropped:
			if gctx.Err() != nil {
				return nil
			}
			logger.Error("connection lost", "code", ev.Code, "reason", ev.Reason)
			return errConnectionLost
		case <-gctx.Done():
			return nil
		}
	})

	// Session summary
	if interval := cmd.Duration("stats-interval"); interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					attrs := view.Snapshot().logAttrs()
					if rec != nil {
						stats := rec.Stats()
						attrs = append(attrs, "recorded", stats.Inserts, "dropped", stats.Dropped)
					}
					logger.Info("session", attrs...)
				}
			}
		})
	}

	err = g.Wait()
	logger.Info("session ended", view.Snapshot().logAttrs()...)
	return err
}

// startRecorder wires the message recorder when enabled. The returned func
// flushes and releases it.
func startRecorder(ctx context.Context, cfg *config.ClientConfig, client *shoehive.Client, logger *slog.Logger) (*recorder.Recorder, func(), error) {
	if !cfg.Recorder.Enabled {
		return nil, func() {}, nil
	}

	db := cfg.Recorder.Database
	logger.Info("connecting to database",
		"host", db.Host,
		"port", db.Port,
		"database", db.Name,
	)
	pool, err := database.Open(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	rec := recorder.New(recorder.Config{
		BatchSize:     cfg.Recorder.BatchSize,
		FlushInterval: cfg.Recorder.FlushInterval,
		BufferSize:    cfg.Recorder.BufferSize,
	}, recorder.NewPgStore(pool), logger)
	rec.Attach(client)

	if err := rec.Start(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return rec, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rec.Stop(stopCtx)
		stats := rec.Stats()
		logger.Info("recorder closed",
			"session_id", rec.SessionID(),
			"inserts", stats.Inserts,
			"dropped", stats.Dropped,
			"errors", stats.Errors,
		)
		pool.Close()
	}, nil
}

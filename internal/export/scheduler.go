package export

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/groblegark/relay/internal/store"
)

// Destination is the interface for an export target.
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler exports the event log to a destination at a fixed interval.
type Scheduler struct {
	store    store.Store
	dest     Destination
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from the store to dest
// at the given interval.
func NewScheduler(s store.Store, dest Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{store: s, dest: dest, interval: interval, logger: logger}
}

// Start begins periodic export. It runs an initial export immediately,
// then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for any in-flight export to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.exportOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.exportOnce(ctx)
		}
	}
}

func (s *Scheduler) exportOnce(ctx context.Context) {
	var buf bytes.Buffer
	if err := WriteJSONL(ctx, s.store, &buf); err != nil {
		s.logger.Error("event export failed", "err", err)
		return
	}

	if err := s.dest.Write(ctx, buf.Bytes()); err != nil {
		s.logger.Error("export destination write failed", "err", err)
		return
	}

	s.logger.Info("event export completed", "bytes", buf.Len())
}

package waypoint

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

// saveTimeout bounds one store write.
const saveTimeout = 5 * time.Second

// progressWriter persists progress snapshots off the UI loop. Only the latest
// snapshot of each session is kept while a write is in flight.
type progressWriter struct {
	store  ports.ProgressStore
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]domain.Progress
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newProgressWriter(store ports.ProgressStore, logger *slog.Logger) *progressWriter {
	w := &progressWriter{
		store:   store,
		logger:  logger,
		pending: make(map[string]domain.Progress),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules p for writing. It never blocks.
func (w *progressWriter) Enqueue(p domain.Progress) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("progress dropped after close", "session", p.SessionID)
		return
	}
	w.pending[p.SessionID] = p
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Close writes everything still pending and stops the writer. It is idempotent.
func (w *progressWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	<-w.done
	return nil
}

func (w *progressWriter) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.stop:
			w.flush()
			return
		}
	}
}

func (w *progressWriter) flush() {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]domain.Progress)
	w.mu.Unlock()

	for id, p := range batch {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := w.store.Save(ctx, id, &p)
		cancel()
		if err != nil {
			w.logger.Error("failed to save progress", "session", id, "err", err)
		}
	}
}

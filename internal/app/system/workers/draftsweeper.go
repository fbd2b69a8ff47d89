// internal/app/system/workers/draftsweeper.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Evicter is the part of drafts.Registry the sweeper needs.
type Evicter interface {
	Evict(ttl time.Duration) int
}

// DraftSweeper is a background worker that drops editor drafts nobody has
// touched for a while.
type DraftSweeper struct {
	drafts   Evicter
	log      *zap.Logger
	interval time.Duration
	idleTTL  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDraftSweeper creates a new draft sweeper.
//
// Parameters:
//   - drafts: the draft registry
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 5 minutes)
//   - idleTTL: how long a draft may sit unused before it is dropped (e.g., 2 hours)
func NewDraftSweeper(drafts Evicter, logger *zap.Logger, interval, idleTTL time.Duration) *DraftSweeper {
	return &DraftSweeper{
		drafts:   drafts,
		log:      logger,
		interval: interval,
		idleTTL:  idleTTL,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *DraftSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("draft sweeper started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_ttl", w.idleTTL))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call twice.
func (w *DraftSweeper) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("draft sweeper stopped")
}

func (w *DraftSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *DraftSweeper) sweep() {
	if n := w.drafts.Evict(w.idleTTL); n > 0 {
		w.log.Info("evicted idle drafts", zap.Int("count", n))
	}
}

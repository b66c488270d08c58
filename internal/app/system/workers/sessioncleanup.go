// internal/app/system/workers/sessioncleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// InactiveCloser closes activity sessions idle longer than a threshold.
// *sessions.Store implements it.
type InactiveCloser interface {
	CloseInactive(ctx context.Context, threshold time.Duration) (int64, error)
}

// SessionCleanup is a background worker that closes inactive sessions.
type SessionCleanup struct {
	sessions          InactiveCloser
	log               *zap.Logger
	interval          time.Duration
	inactiveThreshold time.Duration
	loop              loop
}

// NewSessionCleanup creates a session cleanup worker that runs every interval
// and closes sessions inactive for longer than inactiveThreshold.
func NewSessionCleanup(sessStore InactiveCloser, logger *zap.Logger, interval, inactiveThreshold time.Duration) *SessionCleanup {
	return &SessionCleanup{
		sessions:          sessStore,
		log:               logger,
		interval:          interval,
		inactiveThreshold: inactiveThreshold,
	}
}

// Start begins the background cleanup loop.
func (w *SessionCleanup) Start() {
	w.loop.start(w.interval, w.cleanup)
	w.log.Info("session cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("inactive_threshold", w.inactiveThreshold))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *SessionCleanup) Stop() {
	w.loop.stop()
	w.log.Info("session cleanup worker stopped")
}

func (w *SessionCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.sessions.CloseInactive(ctx, w.inactiveThreshold)
	if err != nil {
		w.log.Error("failed to close inactive sessions", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("closed inactive sessions", zap.Int64("count", count))
	}
}

// loop runs fn on a ticker until stopped.
type loop struct {
	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func (l *loop) start(every time.Duration, fn func()) {
	l.stopCh = make(chan struct{})
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-l.stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

func (l *loop) stop() {
	if l.stopCh == nil {
		return
	}
	l.once.Do(func() { close(l.stopCh) })
	l.wg.Wait()
}

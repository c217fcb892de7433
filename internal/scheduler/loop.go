package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const DefaultInterval = time.Hour

// Loop owns the recurring timer that drives reconciliation passes.
// It is an explicit component with a lifecycle owned by bootstrap, not
// ambient global state: construct one, inject it, Start and Stop it.
type Loop struct {
	service  Service
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	ticker  *time.Ticker
	stop    chan struct{}

	// busy guarantees at most one pass in flight: a tick that fires
	// while the previous pass is still running is skipped.
	busy atomic.Bool
}

func NewLoop(service Service, interval time.Duration, logger *zap.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		service:  service,
		interval: interval,
		logger:   logger.Named("scheduler.loop"),
	}
}

// Start runs one pass immediately, then arms the recurring timer.
// Calling Start on a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		l.logger.Info("scheduler already running")
		return
	}

	l.running = true
	l.ticker = time.NewTicker(l.interval)
	l.stop = make(chan struct{})

	go l.run(l.ticker, l.stop)

	l.logger.Info("scheduler started", zap.Duration("interval", l.interval))
}

// Stop cancels future passes. It does not wait for an in-flight pass:
// one that already started runs to completion on its own goroutine.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}

	l.ticker.Stop()
	close(l.stop)
	l.running = false

	l.logger.Info("scheduler stopped")
}

func (l *Loop) Status() LoopStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LoopStatus{Running: l.running}
}

func (l *Loop) run(ticker *time.Ticker, stop chan struct{}) {
	l.runPass()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.runPass()
		}
	}
}

func (l *Loop) runPass() {
	if !l.busy.CompareAndSwap(false, true) {
		l.logger.Warn("previous pass still running, tick skipped")
		return
	}
	defer l.busy.Store(false)

	// Nothing thrown by a pass may stop the timer.
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("reconciliation pass panicked", zap.Any("panic", r))
		}
	}()

	result, err := l.service.ProcessPending(context.Background(), nil)
	if err != nil {
		l.logger.Error("reconciliation pass failed", zap.Error(err))
		return
	}

	if result.Processed > 0 || result.Failed > 0 {
		l.logger.Info("scheduled pass completed",
			zap.Int("processed", result.Processed),
			zap.Int("failed", result.Failed),
		)
	}
}

package refresher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shuliakovsky/wg-endpoints/pkg/metrics"
	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
	"github.com/shuliakovsky/wg-endpoints/pkg/status"
)

const DefaultInterval = 10 * time.Second

// Refresher periodically fetches the daemon status, parses it and publishes
// the result. It is the only writer of the store.
type Refresher struct {
	Fetcher  status.Fetcher
	Store    *peers.Store
	Interval time.Duration
	Logger   *zap.Logger

	mu        sync.RWMutex
	lastErr   error
	lastErrAt time.Time
}

func New(fetcher status.Fetcher, store *peers.Store, interval time.Duration, logger *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{Fetcher: fetcher, Store: store, Interval: interval, Logger: logger}
}

// Run refreshes once immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	r.RefreshOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("refresher_stopped")
			return
		case <-t.C:
			r.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce runs a single fetch-parse-publish cycle. On failure the
// previously published table stays current.
func (r *Refresher) RefreshOnce(ctx context.Context) (err error) {
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("refresh panic: %v", rec)
		}
		metrics.RefreshDuration.Observe(time.Since(started).Seconds())
		if err != nil {
			r.setLastErr(err)
			metrics.RefreshTotal.WithLabelValues("failure").Inc()
			r.Logger.Warn("refresh_failed", zap.Error(err))
		}
	}()

	raw, err := r.Fetcher.Fetch(ctx)
	if err != nil {
		return err
	}
	table := status.Parse(raw)
	snap := r.Store.Publish(table)
	r.setLastErr(nil)

	metrics.RefreshTotal.WithLabelValues("success").Inc()
	metrics.Peers.Set(float64(len(table)))
	r.Logger.Debug("refresh_ok",
		zap.Int("peers", len(table)),
		zap.Uint64("version", snap.Version),
		zap.Int64("latency_ms", time.Since(started).Milliseconds()),
	)
	return nil
}

// LastFailure returns the error of the latest cycle and when it happened.
// err is nil if the latest cycle succeeded.
func (r *Refresher) LastFailure() (at time.Time, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErrAt, r.lastErr
}

func (r *Refresher) setLastErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
	if err != nil {
		r.lastErrAt = time.Now()
	}
}

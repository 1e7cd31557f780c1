// internal/summary/caching.go
//
// Loanform – caching decorator for the summary client.
//
// Context
//   The same five parameters always produce the same schedule, so results are
//   cached by an xxhash of the canonical wire body.  Concurrent identical
//   submissions share one upstream call through singleflight; a caller that
//   gives up does not cancel the call for the others.  The cache is
//   best-effort: read or write failures are logged and counted, never
//   returned.
//
//------------------------------------------------------------------------------

package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/loanform/internal/loan"
	"github.com/yanizio/loanform/internal/metrics"
)

const keyPrefix = "loanform:summary:"

// CachingClient wraps a Client with a schedule cache.
type CachingClient struct {
	next  Client
	cache Cache
	ttl   time.Duration
	log   *zap.SugaredLogger
	sfg   singleflight.Group
}

// NewCachingClient returns a decorator around next.  log may be nil.
func NewCachingClient(next Client, c Cache, ttl time.Duration, log *zap.SugaredLogger) *CachingClient {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CachingClient{next: next, cache: c, ttl: ttl, log: log}
}

// Key returns the cache key for req.
func Key(req loan.Request) (string, error) {
	body, err := Encode(req)
	if err != nil {
		return "", err
	}
	return keyPrefix + strconv.FormatUint(xxhash.Sum64(body), 16), nil
}

// Summarize implements Client.
func (c *CachingClient) Summarize(ctx context.Context, req loan.Request) (loan.Schedule, error) {
	key, err := Key(req)
	if err != nil {
		return c.next.Summarize(ctx, req)
	}

	if sched, ok := c.lookup(ctx, key); ok {
		return sched, nil
	}

	// The shared call outlives any one caller, so it runs detached from ctx
	// and is bounded by the wrapped client's own timeout.  Each caller still
	// stops waiting when its own ctx ends.
	ch := c.sfg.DoChan(key, func() (v any, err error) {
		// DoChan re-panics on its own goroutine, out of reach of the caller.
		defer func() {
			if r := recover(); r != nil {
				v, err = nil, fmt.Errorf("%w: panic: %v", ErrUnavailable, r)
			}
		}()
		flight := context.WithoutCancel(ctx)
		sched, err := c.next.Summarize(flight, req)
		if err != nil {
			return nil, err
		}
		c.store(flight, key, sched)
		return sched, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		sched := res.Val.(loan.Schedule)
		if res.Shared {
			sched = sched.Clone()
		}
		return sched, nil
	}
}

func (c *CachingClient) lookup(ctx context.Context, key string) (loan.Schedule, bool) {
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		metrics.SummaryCache.WithLabelValues("error").Inc()
		c.log.Warnw("summary cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !ok {
		metrics.SummaryCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	var sched loan.Schedule
	if err := json.Unmarshal(raw, &sched); err != nil {
		metrics.SummaryCache.WithLabelValues("error").Inc()
		c.log.Warnw("summary cache entry corrupt", "key", key, "err", err)
		return nil, false
	}
	if sched == nil {
		sched = loan.Schedule{}
	}
	metrics.SummaryCache.WithLabelValues("hit").Inc()
	return sched, true
}

func (c *CachingClient) store(ctx context.Context, key string, sched loan.Schedule) {
	raw, err := json.Marshal(sched)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.log.Warnw("summary cache write failed", "key", key, "err", err)
	}
}

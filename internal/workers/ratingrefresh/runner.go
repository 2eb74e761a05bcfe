package ratingrefresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
)

// Lister enumerates suppliers.
type Lister interface {
	List(ctx context.Context) ([]domain.Supplier, error)
}

// Refresher force-fetches the rating of a supplier.
type Refresher interface {
	Get(ctx context.Context, supplierID string, force bool) (domain.SecurityRating, error)
}

var _ Refresher = (ports.Ratings)(nil)

// Stale reports whether s needs a new rating: none cached, or fetched more
// than maxAge before now.
func Stale(s domain.Supplier, now time.Time, maxAge time.Duration) bool {
	if s.SecurityRating == nil {
		return true
	}
	return now.Sub(s.SecurityRating.FetchedAt) > maxAge
}

// Sweep queues every stale supplier on jobs and returns how many were queued.
func Sweep(ctx context.Context, lister Lister, jobs chan<- string, now time.Time, maxAge time.Duration) (int, error) {
	all, err := lister.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range all {
		if !Stale(s, now, maxAge) {
			continue
		}
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case jobs <- s.ID:
			n++
		}
	}
	return n, nil
}

// Run starts a dispatcher that sweeps for stale ratings every interval and
// concurrency workers that refresh them. It returns when ctx is done and all
// workers have exited. A failed refresh keeps the old rating and is retried on
// a later sweep.
func Run(ctx context.Context, lister Lister, refresher Refresher, concurrency int, interval, maxAge time.Duration) {
	if concurrency < 1 {
		return
	}
	jobsCh := make(chan string, concurrency)

	// dispatcher loop
	go func() {
		defer close(jobsCh)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if n, err := Sweep(ctx, lister, jobsCh, time.Now(), maxAge); err != nil {
				if ctx.Err() == nil {
					slog.Error("rating sweep failed", "err", err)
				}
			} else if n > 0 {
				slog.Debug("rating sweep queued", "suppliers", n)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	// workers
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for id := range jobsCh {
				if _, err := refresher.Get(ctx, id, true); err != nil {
					slog.Warn("rating refresh failed", "worker", idx, "supplier", id, "err", err)
					continue
				}
			}
		}(i)
	}
	wg.Wait()
}

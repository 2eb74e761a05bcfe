package ratingrefresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyrisk/internal/domain"
)

type staticLister []domain.Supplier

func (l staticLister) List(ctx context.Context) ([]domain.Supplier, error) { return l, nil }

type recordingRefresher struct {
	mu   sync.Mutex
	seen map[string]int
	fail map[string]bool
}

func (r *recordingRefresher) Get(ctx context.Context, id string, force bool) (domain.SecurityRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !force {
		return domain.SecurityRating{}, errors.New("refresh must be forced")
	}
	r.seen[id]++
	if r.fail[id] {
		return domain.SecurityRating{}, domain.ErrRatingUnavailable
	}
	return domain.SecurityRating{}, nil
}

func (r *recordingRefresher) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[id]
}

var now = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

func suppliersFixture() staticLister {
	return staticLister{
		{ID: "none"},
		{ID: "fresh", SecurityRating: &domain.SecurityRating{FetchedAt: now.Add(-time.Hour)}},
		{ID: "old", SecurityRating: &domain.SecurityRating{FetchedAt: now.Add(-48 * time.Hour)}},
	}
}

func TestStale(t *testing.T) {
	l := suppliersFixture()
	assert.True(t, Stale(l[0], now, 24*time.Hour))
	assert.False(t, Stale(l[1], now, 24*time.Hour))
	assert.True(t, Stale(l[2], now, 24*time.Hour))
}

func TestSweep(t *testing.T) {
	jobs := make(chan string, 10)
	n, err := Sweep(context.Background(), suppliersFixture(), jobs, now, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	close(jobs)
	got := []string{}
	for id := range jobs {
		got = append(got, id)
	}
	assert.Equal(t, []string{"none", "old"}, got)
}

func TestSweepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep(ctx, suppliersFixture(), make(chan string), now, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun(t *testing.T) {
	r := &recordingRefresher{seen: map[string]int{}, fail: map[string]bool{"old": true}}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		// time.Now() is far past the fixture's FetchedAt, so every supplier is stale.
		Run(ctx, suppliersFixture(), r, 2, 10*time.Millisecond, 24*time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return r.count("none") >= 2 && r.count("old") >= 2
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.GreaterOrEqual(t, r.count("fresh"), 1)
}

func TestRunWithoutWorkers(t *testing.T) {
	Run(context.Background(), suppliersFixture(), &recordingRefresher{seen: map[string]int{}}, 0, time.Millisecond, time.Hour)
}

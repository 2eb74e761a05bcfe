package ratings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyrisk/internal/domain"
)

func TestMock(t *testing.T) {
	ctx := context.Background()

	t.Run("returns canned ratings for known domains", func(t *testing.T) {
		r, err := NewMock(MockConfig{Seed: 1}).FetchRating(ctx, "microsoft.com")
		require.NoError(t, err)
		assert.Equal(t, 88, r.Score)
		assert.Equal(t, "B", r.Grade)
		assert.Len(t, r.WeakestFactors, 3)
	})

	t.Run("synthesizes other domains", func(t *testing.T) {
		now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
		r, err := NewMock(MockConfig{Seed: 7, Now: func() time.Time { return now }}).FetchRating(ctx, "acme.com")
		require.NoError(t, err)
		assert.Equal(t, "acme.com", r.Domain)
		assert.GreaterOrEqual(t, r.Score, 70)
		assert.Less(t, r.Score, 95)
		assert.Equal(t, domain.GradeFor(r.Score), r.Grade)
		assert.False(t, r.LastUpdated.After(now))
		assert.True(t, r.LastUpdated.After(now.Add(-31*24*time.Hour)))
		require.Len(t, r.WeakestFactors, 3)
		assert.Equal(t, max(r.Score-15, 40), r.WeakestFactors[0].Score)
	})

	t.Run("always fails at rate one", func(t *testing.T) {
		_, err := NewMock(MockConfig{FailureRate: 1}).FetchRating(ctx, "acme.com")
		assert.ErrorIs(t, err, domain.ErrRatingUnavailable)
	})

	t.Run("never fails at rate zero", func(t *testing.T) {
		m := NewMock(MockConfig{Seed: 3})
		for i := 0; i < 50; i++ {
			_, err := m.FetchRating(ctx, "acme.com")
			require.NoError(t, err)
		}
	})

	t.Run("honours cancellation while waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewMock(MockConfig{MinLatency: time.Second, MaxLatency: 2 * time.Second}).FetchRating(ctx, "acme.com")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("canned data is not aliased", func(t *testing.T) {
		m := NewMock(MockConfig{Seed: 1})
		r, err := m.FetchRating(ctx, "aws.amazon.com")
		require.NoError(t, err)
		r.WeakestFactors[0].Score = 0
		assert.Equal(t, 85, Known["aws.amazon.com"].WeakestFactors[0].Score)
	})
}

package ratings

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
)

// MockConfig shapes the behaviour of Mock. Latency is drawn uniformly from
// [MinLatency, MaxLatency]; FailureRate is the probability of a failed fetch.
type MockConfig struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64
	Seed        uint64
	Now         func() time.Time
}

// Mock stands in for the rating provider with canned and synthetic data.
type Mock struct {
	cfg MockConfig
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMock(cfg MockConfig) *Mock {
	if cfg.MaxLatency < cfg.MinLatency {
		cfg.MaxLatency = cfg.MinLatency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Mock{cfg: cfg, rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

var _ ports.RatingProvider = (*Mock)(nil)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// Known holds the canned ratings of the demo suppliers.
var Known = map[string]domain.SecurityRating{
	"microsoft.com": {
		Domain: "microsoft.com", Score: 88, Grade: "B", LastUpdated: date(2025, 9, 20),
		WeakestFactors: []domain.Factor{{Name: "Patch Cadence", Score: 72}, {Name: "Application Security", Score: 75}, {Name: "DNS Health", Score: 70}},
	},
	"aws.amazon.com": {
		Domain: "aws.amazon.com", Score: 92, Grade: "A", LastUpdated: date(2025, 9, 18),
		WeakestFactors: []domain.Factor{{Name: "Endpoint Security", Score: 85}, {Name: "DNS Health", Score: 88}, {Name: "IP Reputation", Score: 90}},
	},
}

func (m *Mock) draw() (latency time.Duration, fail bool, base int, age time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	latency = m.cfg.MinLatency
	if span := m.cfg.MaxLatency - m.cfg.MinLatency; span > 0 {
		latency += time.Duration(m.rnd.Int64N(int64(span)))
	}
	fail = m.rnd.Float64() < m.cfg.FailureRate
	base = 70 + m.rnd.IntN(25)
	age = time.Duration(m.rnd.Int64N(int64(30 * 24 * time.Hour)))
	return
}

func (m *Mock) FetchRating(ctx context.Context, domainName string) (domain.SecurityRating, error) {
	latency, fail, base, age := m.draw()
	if latency > 0 {
		select {
		case <-ctx.Done():
			return domain.SecurityRating{}, ctx.Err()
		case <-time.After(latency):
		}
	}
	if fail {
		return domain.SecurityRating{}, fmt.Errorf("%w: simulated upstream failure for %s", domain.ErrRatingUnavailable, domainName)
	}
	if r, ok := Known[domainName]; ok {
		return r.Clone(), nil
	}
	y, mo, d := m.cfg.Now().Add(-age).UTC().Date()
	return domain.SecurityRating{
		Domain:      domainName,
		Score:       base,
		Grade:       domain.GradeFor(base),
		LastUpdated: time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
		WeakestFactors: []domain.Factor{
			{Name: "Network Security", Score: max(base-15, 40)},
			{Name: "Application Security", Score: max(base-10, 45)},
			{Name: "Endpoint Security", Score: max(base-8, 50)},
		},
	}, nil
}

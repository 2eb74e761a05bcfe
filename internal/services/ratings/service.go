package ratings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
)

const fetchTimeout = 30 * time.Second

// Service consumes the rating collaborator on behalf of suppliers: it serves
// the cached snapshot unless a refresh is forced and never caches a failure.
type Service struct {
	suppliers ports.Suppliers
	provider  ports.RatingProvider
	group     singleflight.Group
	now       func() time.Time
}

func New(suppliers ports.Suppliers, provider ports.RatingProvider) *Service {
	return &Service{
		suppliers: suppliers,
		provider:  provider,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.Ratings = (*Service)(nil)

// Get returns the supplier's rating. Without force a cached rating for the
// current primary domain is returned as is; otherwise the provider is called
// and, on success, the result replaces the cache. Concurrent fetches for one
// supplier share a single call.
func (s *Service) Get(ctx context.Context, supplierID string, force bool) (domain.SecurityRating, error) {
	sup, ok, err := s.suppliers.GetSupplier(ctx, supplierID)
	if err != nil {
		return domain.SecurityRating{}, err
	}
	if !ok {
		return domain.SecurityRating{}, fmt.Errorf("supplier %s: %w", supplierID, domain.ErrNotFound)
	}
	if cached := sup.SecurityRating; cached != nil && !force && cached.Domain == sup.PrimaryDomain {
		return cached.Clone(), nil
	}

	// The shared fetch outlives any single caller; joined waiters must not
	// inherit the first caller's cancellation.
	v, err, shared := s.group.Do(supplierID, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return s.refresh(fetchCtx, sup)
	})
	if shared {
		slog.Debug("rating fetch shared", "supplier", supplierID)
	}
	if err != nil {
		return domain.SecurityRating{}, err
	}
	return v.(domain.SecurityRating).Clone(), nil
}

func (s *Service) refresh(ctx context.Context, sup domain.Supplier) (domain.SecurityRating, error) {
	rating, err := s.provider.FetchRating(ctx, sup.PrimaryDomain)
	if err != nil {
		slog.Warn("rating fetch failed", "supplier", sup.ID, "domain", sup.PrimaryDomain, "err", err)
		if !errors.Is(err, domain.ErrRatingUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrRatingUnavailable, err)
		}
		return domain.SecurityRating{}, err
	}
	rating = rating.Normalize()
	// Keyed by the host that was asked for, whatever the provider echoes.
	rating.Domain = sup.PrimaryDomain
	rating.FetchedAt = s.now()

	if _, err := s.suppliers.UpdateSupplier(ctx, sup.ID, domain.SupplierPatch{SecurityRating: &rating}); err != nil {
		return domain.SecurityRating{}, err
	}
	slog.Info("rating cached", "supplier", sup.ID, "domain", rating.Domain, "score", rating.Score, "grade", rating.Grade)
	return rating, nil
}

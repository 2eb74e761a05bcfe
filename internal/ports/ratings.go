package ports

import (
	"context"

	"supplyrisk/internal/domain"
)

// RatingProvider fetches a security rating snapshot for a domain. Transient
// upstream failures wrap domain.ErrRatingUnavailable.
type RatingProvider interface {
	FetchRating(ctx context.Context, domainName string) (domain.SecurityRating, error)
}

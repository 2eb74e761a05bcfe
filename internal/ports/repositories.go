package ports

import (
	"context"

	"supplyrisk/internal/domain"
)

// SupplierRepository stores suppliers together with their nested services.
// Returned values are copies; mutate through Mutate only.
type SupplierRepository interface {
	Insert(ctx context.Context, s domain.Supplier) error
	Get(ctx context.Context, id string) (s domain.Supplier, found bool, err error)
	// List returns every supplier ordered by creation time.
	List(ctx context.Context) ([]domain.Supplier, error)
	// Mutate runs fn on the stored supplier under a per-supplier lock and
	// commits the result only if fn returns nil. It fails with
	// domain.ErrNotFound when id is unknown.
	Mutate(ctx context.Context, id string, fn func(*domain.Supplier) error) (domain.Supplier, error)
}

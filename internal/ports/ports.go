package ports

import (
	"context"

	"supplyrisk/internal/domain"
)

// SupplierQuery filters and pages the supplier list.
type SupplierQuery struct {
	Search   string
	Page     int
	PageSize int
}

type SupplierPage struct {
	Items      []domain.Supplier
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// NewService is the input of Suppliers.AddService.
type NewService struct {
	domain.ServiceInput
	SubmitForReview bool
}

// Suppliers manages suppliers, their services and the approval workflow.
type Suppliers interface {
	AddSupplier(ctx context.Context, in domain.SupplierInput) (domain.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, patch domain.SupplierPatch) (domain.Supplier, error)
	GetSupplier(ctx context.Context, id string) (domain.Supplier, bool, error)
	ListSuppliers(ctx context.Context, q SupplierQuery) (SupplierPage, error)
	Summary(ctx context.Context, id string) (domain.Summary, error)

	AddService(ctx context.Context, supplierID string, in NewService, role domain.Role) (domain.Service, error)
	UpdateService(ctx context.Context, supplierID, serviceID string, patch domain.ServicePatch) (domain.Service, error)
	GetService(ctx context.Context, supplierID, serviceID string) (domain.Service, bool, error)
	Transition(ctx context.Context, supplierID, serviceID string, action domain.Action, role domain.Role) (domain.Service, error)
}

// Ratings serves cached security ratings per supplier.
type Ratings interface {
	Get(ctx context.Context, supplierID string, force bool) (domain.SecurityRating, error)
}

// AssetClassification is a classified internal asset whose CIA ratings can
// prefill a service's scores.
type AssetClassification struct {
	ID              string
	Name            string
	Confidentiality int
	Integrity       int
	Availability    int
	BusinessUnit    string
}

// Catalog searches asset classifications.
type Catalog interface {
	Search(ctx context.Context, query string) []AssetClassification
	Get(ctx context.Context, id string) (AssetClassification, bool)
}

package suppliers

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var validate = validator.New()

type contact struct {
	Name             string `validate:"required,max=200"`
	BusinessPOCEmail string `validate:"omitempty,email"`
	VendorPOCEmail   string `validate:"omitempty,email"`
}

// contactPatch validates only the contact fields a patch sets.
type contactPatch struct {
	Name             *string `validate:"omitnil,required,max=200"`
	BusinessPOCEmail *string `validate:"omitempty,email"`
	VendorPOCEmail   *string `validate:"omitempty,email"`
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// Service implements ports.Suppliers on top of a SupplierRepository. Every
// write goes through repo.Mutate so each call applies fully or not at all.
type Service struct {
	repo  ports.SupplierRepository
	now   func() time.Time
	newID func() string
}

func New(repo ports.SupplierRepository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ ports.Suppliers = (*Service)(nil)

func (s *Service) AddSupplier(ctx context.Context, in domain.SupplierInput) (domain.Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(contact{in.Name, in.BusinessPOCEmail, in.VendorPOCEmail}); err != nil {
		return domain.Supplier{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	primary, err := NormalizeDomain(in.PrimaryDomain)
	if err != nil {
		return domain.Supplier{}, err
	}
	urls, err := NormalizeURLs(in.AdditionalURLs)
	if err != nil {
		return domain.Supplier{}, err
	}
	now := s.now()
	sup := domain.Supplier{
		ID:               s.newID(),
		Name:             in.Name,
		BusinessPOCEmail: in.BusinessPOCEmail,
		VendorPOCEmail:   in.VendorPOCEmail,
		PrimaryDomain:    primary,
		AdditionalURLs:   urls,
		Services:         []domain.Service{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, sup); err != nil {
		return domain.Supplier{}, err
	}
	slog.Info("supplier added", "supplier", sup.ID, "domain", sup.PrimaryDomain)
	return sup, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, patch domain.SupplierPatch) (domain.Supplier, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := validate.Struct(contactPatch{patch.Name, patch.BusinessPOCEmail, patch.VendorPOCEmail}); err != nil {
		return domain.Supplier{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if patch.PrimaryDomain != nil {
		d, err := NormalizeDomain(*patch.PrimaryDomain)
		if err != nil {
			return domain.Supplier{}, err
		}
		patch.PrimaryDomain = &d
	}
	if patch.AdditionalURLs != nil {
		urls, err := NormalizeURLs(*patch.AdditionalURLs)
		if err != nil {
			return domain.Supplier{}, err
		}
		patch.AdditionalURLs = &urls
	}
	return s.repo.Mutate(ctx, id, func(sup *domain.Supplier) error {
		patch.Apply(sup, s.now())
		return nil
	})
}

func (s *Service) GetSupplier(ctx context.Context, id string) (domain.Supplier, bool, error) {
	return s.repo.Get(ctx, id)
}

// ListSuppliers matches q.Search case-insensitively against the supplier name
// and business contact, then pages the result (pages start at 1).
func (s *Service) ListSuppliers(ctx context.Context, q ports.SupplierQuery) (ports.SupplierPage, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return ports.SupplierPage{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	matched := all[:0]
	for _, sup := range all {
		if needle == "" ||
			strings.Contains(strings.ToLower(sup.Name), needle) ||
			strings.Contains(strings.ToLower(sup.BusinessPOCEmail), needle) {
			matched = append(matched, sup)
		}
	}

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)
	page := max(q.Page, 1)

	out := ports.SupplierPage{
		Items:      []domain.Supplier{},
		Total:      len(matched),
		Page:       page,
		PageSize:   size,
		TotalPages: int(math.Ceil(float64(len(matched)) / float64(size))),
	}
	// Pages past the end are empty; checking first keeps (page-1)*size from
	// overflowing.
	if page > out.TotalPages {
		return out, nil
	}
	start := (page - 1) * size
	out.Items = matched[start:min(start+size, len(matched))]
	return out, nil
}

func (s *Service) Summary(ctx context.Context, id string) (domain.Summary, error) {
	sup, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Summary{}, err
	}
	if !ok {
		return domain.Summary{}, fmt.Errorf("supplier %s: %w", id, domain.ErrNotFound)
	}
	return domain.Summarize(sup), nil
}

// AddService appends a new Draft service to the supplier. With
// SubmitForReview set it is sent for review in the same mutation.
func (s *Service) AddService(ctx context.Context, supplierID string, in ports.NewService, role domain.Role) (domain.Service, error) {
	var created domain.Service
	_, err := s.repo.Mutate(ctx, supplierID, func(sup *domain.Supplier) error {
		now := s.now()
		svc, err := domain.NewService(s.newID(), in.ServiceInput, now)
		if err != nil {
			return err
		}
		if in.SubmitForReview {
			next, err := domain.Transition(svc.State, domain.ActionSendForReview, role)
			if err != nil {
				return err
			}
			svc.State = next
		}
		sup.Services = append(sup.Services, svc)
		sup.UpdatedAt = now
		created = svc
		return nil
	})
	if err != nil {
		return domain.Service{}, err
	}
	slog.Info("service added", "supplier", supplierID, "service", created.ID,
		"risk", created.RiskLevel(), "state", created.State)
	return created, nil
}

// UpdateService merges patch into a Draft service; see domain.ServicePatch.
func (s *Service) UpdateService(ctx context.Context, supplierID, serviceID string, patch domain.ServicePatch) (domain.Service, error) {
	var updated domain.Service
	_, err := s.repo.Mutate(ctx, supplierID, func(sup *domain.Supplier) error {
		svc := sup.Service(serviceID)
		if svc == nil {
			return fmt.Errorf("service %s: %w", serviceID, domain.ErrNotFound)
		}
		now := s.now()
		if err := patch.Apply(svc, now); err != nil {
			return err
		}
		sup.UpdatedAt = now
		updated = *svc
		return nil
	})
	if err != nil {
		return domain.Service{}, err
	}
	return updated, nil
}

func (s *Service) GetService(ctx context.Context, supplierID, serviceID string) (domain.Service, bool, error) {
	sup, ok, err := s.repo.Get(ctx, supplierID)
	if err != nil || !ok {
		return domain.Service{}, false, err
	}
	svc := sup.Service(serviceID)
	if svc == nil {
		return domain.Service{}, false, nil
	}
	return *svc, true, nil
}

// Transition applies a workflow action on behalf of role.
func (s *Service) Transition(ctx context.Context, supplierID, serviceID string, action domain.Action, role domain.Role) (domain.Service, error) {
	var updated domain.Service
	var from domain.State
	_, err := s.repo.Mutate(ctx, supplierID, func(sup *domain.Supplier) error {
		svc := sup.Service(serviceID)
		if svc == nil {
			return fmt.Errorf("service %s: %w", serviceID, domain.ErrNotFound)
		}
		next, err := domain.Transition(svc.State, action, role)
		if err != nil {
			return err
		}
		now := s.now()
		from = svc.State
		svc.State = next
		svc.UpdatedAt = now
		sup.UpdatedAt = now
		updated = *svc
		return nil
	})
	if err != nil {
		slog.Warn("transition rejected", "supplier", supplierID, "service", serviceID,
			"action", action, "role", role, "err", err)
		return domain.Service{}, err
	}
	slog.Info("service transitioned", "supplier", supplierID, "service", serviceID,
		"from", from, "to", updated.State, "role", role)
	return updated, nil
}

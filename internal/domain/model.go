package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Core domain models. Wire shapes live in the http adapter; keep these
// free of transport concerns.

type Materiality string

const (
	MaterialOutsourcing Materiality = "material outsourcing"
	NotOutsourcing      Materiality = "not categorized as outsourcing"
)

func (m Materiality) Valid() bool { return m == MaterialOutsourcing || m == NotOutsourcing }

type ProcurementStatus string

const (
	ProcurementNotStarted ProcurementStatus = "Not Started"
	ProcurementInProgress ProcurementStatus = "In Progress"
	ProcurementCompleted  ProcurementStatus = "Completed"
	ProcurementOnHold     ProcurementStatus = "On Hold"
)

func (p ProcurementStatus) Valid() bool {
	switch p {
	case ProcurementNotStarted, ProcurementInProgress, ProcurementCompleted, ProcurementOnHold:
		return true
	}
	return false
}

// RegulatoryStatus tracks a regulator notification (CBUAE, DACF).
type RegulatoryStatus string

const (
	RegulatoryNotRequired RegulatoryStatus = "Not Required"
	RegulatoryPending     RegulatoryStatus = "Pending"
	RegulatorySubmitted   RegulatoryStatus = "Submitted"
	RegulatoryApproved    RegulatoryStatus = "Approved"
	RegulatoryRejected    RegulatoryStatus = "Rejected"
)

func (r RegulatoryStatus) Valid() bool {
	switch r {
	case RegulatoryNotRequired, RegulatoryPending, RegulatorySubmitted, RegulatoryApproved, RegulatoryRejected:
		return true
	}
	return false
}

type Supplier struct {
	ID               string
	Name             string
	BusinessPOCEmail string
	VendorPOCEmail   string
	PrimaryDomain    string
	AdditionalURLs   []string
	Services         []Service
	SecurityRating   *SecurityRating
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Clone returns a deep copy of s.
func (s Supplier) Clone() Supplier {
	out := s
	out.AdditionalURLs = append([]string(nil), s.AdditionalURLs...)
	out.Services = append([]Service(nil), s.Services...)
	if s.SecurityRating != nil {
		r := s.SecurityRating.Clone()
		out.SecurityRating = &r
	}
	return out
}

// Service returns a pointer into s.Services, or nil.
func (s *Supplier) Service(id string) *Service {
	for i := range s.Services {
		if s.Services[i].ID == id {
			return &s.Services[i]
		}
	}
	return nil
}

type Service struct {
	ID                   string
	Description          string
	BusinessUnit         string
	MaterialityRating    Materiality
	VendorAssessmentDate time.Time
	LastAssessmentDate   time.Time
	NextReviewDate       time.Time
	ProcurementStatus    ProcurementStatus
	NotificationStatus   RegulatoryStatus
	DACFStatus           RegulatoryStatus
	State                State
	CreatedAt            time.Time
	UpdatedAt            time.Time

	scores     ScoreSet
	assessment Assessment
}

// SetScores is the only writer of the scores and of the fields derived from
// them.
func (s *Service) SetScores(scores ScoreSet) error {
	a, err := DeriveRisk(scores)
	if err != nil {
		return err
	}
	s.scores = scores
	s.assessment = a
	return nil
}

func (s Service) Scores() ScoreSet                 { return s.scores }
func (s Service) Assessment() Assessment           { return s.assessment }
func (s Service) WeightedAverage() decimal.Decimal { return s.assessment.WeightedAverage }
func (s Service) RiskLevel() RiskLevel             { return s.assessment.RiskLevel }
func (s Service) ReviewFrequency() ReviewFrequency { return s.assessment.ReviewFrequency }

// ServiceInput carries the caller-provided fields of a new service.
type ServiceInput struct {
	Description          string
	BusinessUnit         string
	Scores               ScoreSet
	MaterialityRating    Materiality
	VendorAssessmentDate time.Time
	LastAssessmentDate   time.Time
	NextReviewDate       time.Time
	ProcurementStatus    ProcurementStatus
	NotificationStatus   RegulatoryStatus
	DACFStatus           RegulatoryStatus
}

func (in *ServiceInput) defaults() {
	if in.MaterialityRating == "" {
		in.MaterialityRating = NotOutsourcing
	}
	if in.ProcurementStatus == "" {
		in.ProcurementStatus = ProcurementNotStarted
	}
	if in.NotificationStatus == "" {
		in.NotificationStatus = RegulatoryNotRequired
	}
	if in.DACFStatus == "" {
		in.DACFStatus = RegulatoryNotRequired
	}
}

// NewService builds a Draft service with its derived fields computed.
func NewService(id string, in ServiceInput, now time.Time) (Service, error) {
	in.defaults()
	svc := Service{
		ID:                   id,
		Description:          strings.TrimSpace(in.Description),
		BusinessUnit:         strings.TrimSpace(in.BusinessUnit),
		MaterialityRating:    in.MaterialityRating,
		VendorAssessmentDate: dateOnly(in.VendorAssessmentDate),
		LastAssessmentDate:   dateOnly(in.LastAssessmentDate),
		NextReviewDate:       dateOnly(in.NextReviewDate),
		ProcurementStatus:    in.ProcurementStatus,
		NotificationStatus:   in.NotificationStatus,
		DACFStatus:           in.DACFStatus,
		State:                StateDraft,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := svc.validate(); err != nil {
		return Service{}, err
	}
	if err := svc.SetScores(in.Scores); err != nil {
		return Service{}, err
	}
	return svc, nil
}

// RestoreService rebuilds a stored service. Derived fields are recomputed
// from scores rather than trusted from storage.
func RestoreService(s Service, scores ScoreSet) (Service, error) {
	if err := s.SetScores(scores); err != nil {
		return Service{}, fmt.Errorf("restore service %s: %w", s.ID, err)
	}
	return s, nil
}

func (s Service) validate() error {
	switch {
	case s.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	case s.BusinessUnit == "":
		return fmt.Errorf("%w: business unit is required", ErrInvalidInput)
	case !s.MaterialityRating.Valid():
		return fmt.Errorf("%w: materiality rating %q", ErrInvalidInput, s.MaterialityRating)
	case !s.ProcurementStatus.Valid():
		return fmt.Errorf("%w: procurement status %q", ErrInvalidInput, s.ProcurementStatus)
	case !s.NotificationStatus.Valid():
		return fmt.Errorf("%w: notification status %q", ErrInvalidInput, s.NotificationStatus)
	case !s.DACFStatus.Valid():
		return fmt.Errorf("%w: DACF status %q", ErrInvalidInput, s.DACFStatus)
	}
	return nil
}

// ScoresPatch changes individual dimensions of a ScoreSet.
type ScoresPatch struct {
	Confidentiality          *int
	IntegrityOfData          *int
	AvailabilityRequirement  *int
	IntegrationLevelOfAccess *int
	ReputationalImpact       *int
	RegulatoryImpact         *int
	FinancialImpact          *int
	CustomerServiceImpact    *int
}

// Merge overlays the set dimensions of p onto base.
func (p ScoresPatch) Merge(base ScoreSet) ScoreSet {
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.Confidentiality, p.Confidentiality)
	set(&base.IntegrityOfData, p.IntegrityOfData)
	set(&base.AvailabilityRequirement, p.AvailabilityRequirement)
	set(&base.IntegrationLevelOfAccess, p.IntegrationLevelOfAccess)
	set(&base.ReputationalImpact, p.ReputationalImpact)
	set(&base.RegulatoryImpact, p.RegulatoryImpact)
	set(&base.FinancialImpact, p.FinancialImpact)
	set(&base.CustomerServiceImpact, p.CustomerServiceImpact)
	return base
}

// FullScores turns a complete ScoreSet into a patch that replaces every dimension.
func FullScores(s ScoreSet) *ScoresPatch {
	return &ScoresPatch{
		Confidentiality:          &s.Confidentiality,
		IntegrityOfData:          &s.IntegrityOfData,
		AvailabilityRequirement:  &s.AvailabilityRequirement,
		IntegrationLevelOfAccess: &s.IntegrationLevelOfAccess,
		ReputationalImpact:       &s.ReputationalImpact,
		RegulatoryImpact:         &s.RegulatoryImpact,
		FinancialImpact:          &s.FinancialImpact,
		CustomerServiceImpact:    &s.CustomerServiceImpact,
	}
}

// ServicePatch is a partial update of a service's content fields. The
// workflow state is not part of it.
type ServicePatch struct {
	Description          *string
	BusinessUnit         *string
	Scores               *ScoresPatch
	MaterialityRating    *Materiality
	VendorAssessmentDate *time.Time
	LastAssessmentDate   *time.Time
	NextReviewDate       *time.Time
	ProcurementStatus    *ProcurementStatus
	NotificationStatus   *RegulatoryStatus
	DACFStatus           *RegulatoryStatus
}

// Apply merges p into s. It refuses services that have left Draft and
// recomputes the derived fields only when p carries scores, always from the
// merged ScoreSet. On error s is left unchanged.
func (p ServicePatch) Apply(s *Service, now time.Time) error {
	if !Editable(s.State) {
		return fmt.Errorf("%w: service %s is %q", ErrServiceLocked, s.ID, s.State)
	}
	next := *s
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if p.BusinessUnit != nil {
		next.BusinessUnit = strings.TrimSpace(*p.BusinessUnit)
	}
	if p.MaterialityRating != nil {
		next.MaterialityRating = *p.MaterialityRating
	}
	if p.VendorAssessmentDate != nil {
		next.VendorAssessmentDate = dateOnly(*p.VendorAssessmentDate)
	}
	if p.LastAssessmentDate != nil {
		next.LastAssessmentDate = dateOnly(*p.LastAssessmentDate)
	}
	if p.NextReviewDate != nil {
		next.NextReviewDate = dateOnly(*p.NextReviewDate)
	}
	if p.ProcurementStatus != nil {
		next.ProcurementStatus = *p.ProcurementStatus
	}
	if p.NotificationStatus != nil {
		next.NotificationStatus = *p.NotificationStatus
	}
	if p.DACFStatus != nil {
		next.DACFStatus = *p.DACFStatus
	}
	if err := next.validate(); err != nil {
		return err
	}
	if p.Scores != nil {
		if err := next.SetScores(p.Scores.Merge(s.scores)); err != nil {
			return err
		}
	}
	next.UpdatedAt = now
	*s = next
	return nil
}

// SupplierInput carries the caller-provided fields of a new supplier.
type SupplierInput struct {
	Name             string
	BusinessPOCEmail string
	VendorPOCEmail   string
	PrimaryDomain    string
	AdditionalURLs   []string
}

// SupplierPatch is a shallow partial update of a supplier.
type SupplierPatch struct {
	Name             *string
	BusinessPOCEmail *string
	VendorPOCEmail   *string
	PrimaryDomain    *string
	AdditionalURLs   *[]string
	SecurityRating   *SecurityRating
}

// Apply merges the set fields of p into s and re-stamps it. Changing the
// primary domain drops a cached rating unless p sets a new one.
func (p SupplierPatch) Apply(s *Supplier, now time.Time) {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.BusinessPOCEmail != nil {
		s.BusinessPOCEmail = *p.BusinessPOCEmail
	}
	if p.VendorPOCEmail != nil {
		s.VendorPOCEmail = *p.VendorPOCEmail
	}
	if p.PrimaryDomain != nil {
		if *p.PrimaryDomain != s.PrimaryDomain {
			// The cached rating describes the old host.
			s.SecurityRating = nil
		}
		s.PrimaryDomain = *p.PrimaryDomain
	}
	if p.AdditionalURLs != nil {
		s.AdditionalURLs = append([]string(nil), (*p.AdditionalURLs)...)
	}
	if p.SecurityRating != nil {
		r := p.SecurityRating.Clone()
		s.SecurityRating = &r
	}
	s.UpdatedAt = now
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

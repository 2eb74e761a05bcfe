package catalog

import (
	"context"
	"strings"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
)

// Static catalog; wire to the asset register once it exposes an API.
var classifications = []ports.AssetClassification{
	{ID: "ACF-2024-001", Name: "Customer Data Management System", Confidentiality: 5, Integrity: 5, Availability: 4, BusinessUnit: "Customer Operations"},
	{ID: "ACF-2024-002", Name: "Internal HR Portal", Confidentiality: 4, Integrity: 3, Availability: 3, BusinessUnit: "Human Resources"},
	{ID: "ACF-2024-003", Name: "Financial Reporting System", Confidentiality: 5, Integrity: 5, Availability: 5, BusinessUnit: "Finance"},
	{ID: "ACF-2024-004", Name: "Marketing Website", Confidentiality: 2, Integrity: 3, Availability: 3, BusinessUnit: "Marketing"},
	{ID: "ACF-2024-005", Name: "Payment Processing Gateway", Confidentiality: 5, Integrity: 5, Availability: 5, BusinessUnit: "Finance"},
	{ID: "ACF-2024-006", Name: "Employee Training Platform", Confidentiality: 2, Integrity: 2, Availability: 2, BusinessUnit: "Human Resources"},
	{ID: "ACF-2024-007", Name: "Core Banking System", Confidentiality: 5, Integrity: 5, Availability: 5, BusinessUnit: "IT"},
	{ID: "ACF-2024-008", Name: "Document Management System", Confidentiality: 4, Integrity: 4, Availability: 3, BusinessUnit: "Operations"},
}

type Service struct{}

func New() *Service { return &Service{} }

var _ ports.Catalog = (*Service)(nil)

// Search matches query case-insensitively against id, name and business unit.
// An empty query returns the whole catalog.
func (s *Service) Search(ctx context.Context, query string) []ports.AssetClassification {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []ports.AssetClassification{}
	for _, c := range classifications {
		if q == "" ||
			strings.Contains(strings.ToLower(c.ID), q) ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.BusinessUnit), q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) Get(ctx context.Context, id string) (ports.AssetClassification, bool) {
	for _, c := range classifications {
		if strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	return ports.AssetClassification{}, false
}

// Prefill copies the asset's CIA ratings into the matching service dimensions.
func Prefill(c ports.AssetClassification, scores domain.ScoreSet) domain.ScoreSet {
	scores.Confidentiality = c.Confidentiality
	scores.IntegrityOfData = c.Integrity
	scores.AvailabilityRequirement = c.Availability
	return scores
}

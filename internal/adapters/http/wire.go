package httpadapter

import (
	"encoding/json"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
)

// Request bodies.

type supplierRequest struct {
	Name             string              `json:"name" validate:"required,max=200"`
	BusinessPOCEmail openapi_types.Email `json:"businessPocEmail" validate:"required"`
	VendorPOCEmail   openapi_types.Email `json:"vendorPocEmail" validate:"required"`
	PrimaryDomain    string              `json:"primaryDomain" validate:"required"`
	AdditionalURLs   []string            `json:"additionalUrls" validate:"max=20"`
}

func (b supplierRequest) input() domain.SupplierInput {
	return domain.SupplierInput{
		Name:             b.Name,
		BusinessPOCEmail: string(b.BusinessPOCEmail),
		VendorPOCEmail:   string(b.VendorPOCEmail),
		PrimaryDomain:    b.PrimaryDomain,
		AdditionalURLs:   b.AdditionalURLs,
	}
}

type supplierPatchRequest struct {
	Name             *string              `json:"name" validate:"omitempty,max=200"`
	BusinessPOCEmail *openapi_types.Email `json:"businessPocEmail"`
	VendorPOCEmail   *openapi_types.Email `json:"vendorPocEmail"`
	PrimaryDomain    *string              `json:"primaryDomain"`
	AdditionalURLs   *[]string            `json:"additionalUrls" validate:"omitempty,max=20"`
}

func (b supplierPatchRequest) patch() domain.SupplierPatch {
	p := domain.SupplierPatch{
		Name:           b.Name,
		PrimaryDomain:  b.PrimaryDomain,
		AdditionalURLs: b.AdditionalURLs,
	}
	if b.BusinessPOCEmail != nil {
		v := string(*b.BusinessPOCEmail)
		p.BusinessPOCEmail = &v
	}
	if b.VendorPOCEmail != nil {
		v := string(*b.VendorPOCEmail)
		p.VendorPOCEmail = &v
	}
	return p
}

type serviceRequest struct {
	Description          string                   `json:"description" validate:"required,max=2000"`
	BusinessUnit         string                   `json:"businessUnit" validate:"required,max=200"`
	Scores               *domain.ScoreSet         `json:"scores" validate:"required"`
	MaterialityRating    domain.Materiality       `json:"materialityRating"`
	VendorAssessmentDate *openapi_types.Date      `json:"vendorAssessmentDate"`
	LastAssessmentDate   *openapi_types.Date      `json:"lastAssessmentDate"`
	NextReviewDate       *openapi_types.Date      `json:"nextReviewDate"`
	ProcurementStatus    domain.ProcurementStatus `json:"procurementStatus"`
	NotificationStatus   domain.RegulatoryStatus  `json:"notificationStatus"`
	DACFStatus           domain.RegulatoryStatus  `json:"dacfStatus"`
	SubmitForReview      bool                     `json:"submitForReview"`

	// AssetClassificationID prefills the confidentiality, integrity and
	// availability scores from the catalog.
	AssetClassificationID string `json:"assetClassificationId"`
}

func (b serviceRequest) input() ports.NewService {
	return ports.NewService{
		ServiceInput: domain.ServiceInput{
			Description:          b.Description,
			BusinessUnit:         b.BusinessUnit,
			Scores:               *b.Scores,
			MaterialityRating:    b.MaterialityRating,
			VendorAssessmentDate: fromDate(b.VendorAssessmentDate),
			LastAssessmentDate:   fromDate(b.LastAssessmentDate),
			NextReviewDate:       fromDate(b.NextReviewDate),
			ProcurementStatus:    b.ProcurementStatus,
			NotificationStatus:   b.NotificationStatus,
			DACFStatus:           b.DACFStatus,
		},
		SubmitForReview: b.SubmitForReview,
	}
}

type scoresPatchRequest struct {
	Confidentiality          *int `json:"confidentiality"`
	IntegrityOfData          *int `json:"integrityOfData"`
	AvailabilityRequirement  *int `json:"availabilityRequirement"`
	IntegrationLevelOfAccess *int `json:"integrationLevelOfAccess"`
	ReputationalImpact       *int `json:"reputationalImpact"`
	RegulatoryImpact         *int `json:"regulatoryImpact"`
	FinancialImpact          *int `json:"financialImpact"`
	CustomerServiceImpact    *int `json:"customerServiceImpact"`
}

type servicePatchRequest struct {
	Description          *string                   `json:"description" validate:"omitempty,max=2000"`
	BusinessUnit         *string                   `json:"businessUnit" validate:"omitempty,max=200"`
	Scores               *scoresPatchRequest       `json:"scores"`
	MaterialityRating    *domain.Materiality       `json:"materialityRating"`
	VendorAssessmentDate *openapi_types.Date       `json:"vendorAssessmentDate"`
	LastAssessmentDate   *openapi_types.Date       `json:"lastAssessmentDate"`
	NextReviewDate       *openapi_types.Date       `json:"nextReviewDate"`
	ProcurementStatus    *domain.ProcurementStatus `json:"procurementStatus"`
	NotificationStatus   *domain.RegulatoryStatus  `json:"notificationStatus"`
	DACFStatus           *domain.RegulatoryStatus  `json:"dacfStatus"`
}

func (b servicePatchRequest) patch() domain.ServicePatch {
	p := domain.ServicePatch{
		Description:          b.Description,
		BusinessUnit:         b.BusinessUnit,
		MaterialityRating:    b.MaterialityRating,
		VendorAssessmentDate: fromDatePtr(b.VendorAssessmentDate),
		LastAssessmentDate:   fromDatePtr(b.LastAssessmentDate),
		NextReviewDate:       fromDatePtr(b.NextReviewDate),
		ProcurementStatus:    b.ProcurementStatus,
		NotificationStatus:   b.NotificationStatus,
		DACFStatus:           b.DACFStatus,
	}
	if sc := b.Scores; sc != nil {
		p.Scores = &domain.ScoresPatch{
			Confidentiality:          sc.Confidentiality,
			IntegrityOfData:          sc.IntegrityOfData,
			AvailabilityRequirement:  sc.AvailabilityRequirement,
			IntegrationLevelOfAccess: sc.IntegrationLevelOfAccess,
			ReputationalImpact:       sc.ReputationalImpact,
			RegulatoryImpact:         sc.RegulatoryImpact,
			FinancialImpact:          sc.FinancialImpact,
			CustomerServiceImpact:    sc.CustomerServiceImpact,
		}
	}
	return p
}

type transitionRequest struct {
	Action domain.Action `json:"action" validate:"required,oneof=send_for_review approve"`
}

// Responses.

type assessmentResponse struct {
	WeightedAverage json.Number            `json:"weightedAverage"`
	RiskLevel       domain.RiskLevel       `json:"riskLevel"`
	ReviewFrequency domain.ReviewFrequency `json:"reviewFrequency"`
}

func toAssessment(a domain.Assessment) assessmentResponse {
	return assessmentResponse{
		WeightedAverage: json.Number(a.WeightedAverage.StringFixed(2)),
		RiskLevel:       a.RiskLevel,
		ReviewFrequency: a.ReviewFrequency,
	}
}

type serviceResponse struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	BusinessUnit string          `json:"businessUnit"`
	Scores       domain.ScoreSet `json:"scores"`
	assessmentResponse
	MaterialityRating    domain.Materiality       `json:"materialityRating"`
	VendorAssessmentDate *openapi_types.Date      `json:"vendorAssessmentDate,omitempty"`
	LastAssessmentDate   *openapi_types.Date      `json:"lastAssessmentDate,omitempty"`
	NextReviewDate       *openapi_types.Date      `json:"nextReviewDate,omitempty"`
	ProcurementStatus    domain.ProcurementStatus `json:"procurementStatus"`
	NotificationStatus   domain.RegulatoryStatus  `json:"notificationStatus"`
	DACFStatus           domain.RegulatoryStatus  `json:"dacfStatus"`
	State                domain.State             `json:"state"`
	AvailableActions     []domain.Action          `json:"availableActions"`
	CreatedAt            time.Time                `json:"createdAt"`
	UpdatedAt            time.Time                `json:"updatedAt"`
}

func toService(svc domain.Service, role domain.Role) serviceResponse {
	return serviceResponse{
		ID:                   svc.ID,
		Description:          svc.Description,
		BusinessUnit:         svc.BusinessUnit,
		Scores:               svc.Scores(),
		assessmentResponse:   toAssessment(svc.Assessment()),
		MaterialityRating:    svc.MaterialityRating,
		VendorAssessmentDate: toDate(svc.VendorAssessmentDate),
		LastAssessmentDate:   toDate(svc.LastAssessmentDate),
		NextReviewDate:       toDate(svc.NextReviewDate),
		ProcurementStatus:    svc.ProcurementStatus,
		NotificationStatus:   svc.NotificationStatus,
		DACFStatus:           svc.DACFStatus,
		State:                svc.State,
		AvailableActions:     domain.AvailableActions(svc.State, role),
		CreatedAt:            svc.CreatedAt,
		UpdatedAt:            svc.UpdatedAt,
	}
}

type factorResponse struct {
	Factor string `json:"factor"`
	Score  int    `json:"score"`
}

type ratingResponse struct {
	Domain         string             `json:"domain"`
	Score          int                `json:"score"`
	Grade          string             `json:"grade"`
	LastUpdated    openapi_types.Date `json:"lastUpdated"`
	WeakestFactors []factorResponse   `json:"weakestFactors"`
	FetchedAt      time.Time          `json:"fetchedAt"`
}

func toRating(r domain.SecurityRating) ratingResponse {
	out := ratingResponse{
		Domain:         r.Domain,
		Score:          r.Score,
		Grade:          r.Grade,
		LastUpdated:    openapi_types.Date{Time: r.LastUpdated},
		WeakestFactors: []factorResponse{},
		FetchedAt:      r.FetchedAt,
	}
	for _, f := range r.WeakestFactors {
		out.WeakestFactors = append(out.WeakestFactors, factorResponse{Factor: f.Name, Score: f.Score})
	}
	return out
}

type supplierResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	BusinessPOCEmail string            `json:"businessPocEmail"`
	VendorPOCEmail   string            `json:"vendorPocEmail"`
	PrimaryDomain    string            `json:"primaryDomain"`
	AdditionalURLs   []string          `json:"additionalUrls"`
	Services         []serviceResponse `json:"services"`
	SecurityRating   *ratingResponse   `json:"securityRating"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func toSupplier(s domain.Supplier, role domain.Role) supplierResponse {
	out := supplierResponse{
		ID:               s.ID,
		Name:             s.Name,
		BusinessPOCEmail: s.BusinessPOCEmail,
		VendorPOCEmail:   s.VendorPOCEmail,
		PrimaryDomain:    s.PrimaryDomain,
		AdditionalURLs:   append([]string{}, s.AdditionalURLs...),
		Services:         make([]serviceResponse, 0, len(s.Services)),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	for _, svc := range s.Services {
		out.Services = append(out.Services, toService(svc, role))
	}
	if s.SecurityRating != nil {
		r := toRating(*s.SecurityRating)
		out.SecurityRating = &r
	}
	return out
}

type supplierPageResponse struct {
	Items      []supplierResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

type summaryResponse struct {
	HighestRisk     domain.RiskLevel       `json:"highestRisk"`
	StateCounts     map[domain.State]int   `json:"stateCounts"`
	ReviewFrequency domain.ReviewFrequency `json:"reviewFrequency"`
	Services        int                    `json:"services"`
}

type classificationResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Confidentiality int    `json:"confidentiality"`
	Integrity       int    `json:"integrity"`
	Availability    int    `json:"availability"`
	BusinessUnit    string `json:"businessUnit"`
}

func toClassification(c ports.AssetClassification) classificationResponse {
	return classificationResponse(c)
}

func toDate(t time.Time) *openapi_types.Date {
	if t.IsZero() {
		return nil
	}
	return &openapi_types.Date{Time: t}
}

func fromDate(d *openapi_types.Date) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

func fromDatePtr(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

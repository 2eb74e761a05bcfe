package seed

import (
	"context"
	"fmt"
	"time"

	"supplyrisk/internal/adapters/ratings"
	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
)

type demoService struct {
	in    ports.NewService
	state domain.State
}

type demoSupplier struct {
	in       domain.SupplierInput
	services []demoService
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func demoInput(desc, unit string, scores domain.ScoreSet, mat domain.Materiality, assessed, next time.Time,
	proc domain.ProcurementStatus, notif, dacf domain.RegulatoryStatus) ports.NewService {
	return ports.NewService{ServiceInput: domain.ServiceInput{
		Description:          desc,
		BusinessUnit:         unit,
		Scores:               scores,
		MaterialityRating:    mat,
		VendorAssessmentDate: assessed,
		LastAssessmentDate:   assessed,
		NextReviewDate:       next,
		ProcurementStatus:    proc,
		NotificationStatus:   notif,
		DACFStatus:           dacf,
	}}
}

var demo = []demoSupplier{
	{
		in: domain.SupplierInput{
			Name:             "Microsoft",
			BusinessPOCEmail: "alice@bank.example",
			VendorPOCEmail:   "rep@microsoft.example",
			PrimaryDomain:    "microsoft.com",
			AdditionalURLs:   []string{"portal.microsoft.com", "admin.microsoft.com", "security.microsoft.com"},
		},
		services: []demoService{
			{
				in: demoInput("Microsoft Office 365 - Cloud productivity suite including email, document collaboration, and communication tools",
					"IT Operations", domain.ScoreSet{5, 4, 5, 4, 3, 4, 3, 4}, domain.MaterialOutsourcing,
					day(2025, 8, 10), day(2026, 8, 10), domain.ProcurementCompleted, domain.RegulatoryApproved, domain.RegulatoryApproved),
				state: domain.StateApproved,
			},
			{
				in: demoInput("Microsoft Viva Insights - Employee analytics and productivity insights platform",
					"Human Resources", domain.ScoreSet{4, 4, 4, 3, 3, 3, 3, 3}, domain.NotOutsourcing,
					day(2025, 7, 15), day(2026, 7, 15), domain.ProcurementInProgress, domain.RegulatorySubmitted, domain.RegulatoryPending),
				state: domain.StatePendingReview,
			},
		},
	},
	{
		in: domain.SupplierInput{
			Name:             "Amazon Web Services",
			BusinessPOCEmail: "carol@bank.example",
			VendorPOCEmail:   "rep@aws.example",
			PrimaryDomain:    "aws.amazon.com",
			AdditionalURLs:   []string{"console.aws.amazon.com", "signin.aws.amazon.com", "support.aws.amazon.com"},
		},
		services: []demoService{
			{
				in: demoInput("AWS S3 - Cloud object storage service for backup and archival of business documents",
					"IT Infrastructure", domain.ScoreSet{2, 3, 3, 2, 2, 2, 2, 2}, domain.NotOutsourcing,
					day(2025, 6, 20), day(2027, 6, 20), domain.ProcurementNotStarted, domain.RegulatoryNotRequired, domain.RegulatoryNotRequired),
				state: domain.StateDraft,
			},
		},
	},
}

// Demo loads the demo suppliers unless suppliers already exist. Services are
// walked to their target state through the normal workflow, acting as a
// Manager.
func Demo(ctx context.Context, sups ports.Suppliers) error {
	page, err := sups.ListSuppliers(ctx, ports.SupplierQuery{PageSize: 1})
	if err != nil {
		return err
	}
	if page.Total > 0 {
		return nil
	}
	for _, d := range demo {
		s, err := sups.AddSupplier(ctx, d.in)
		if err != nil {
			return fmt.Errorf("seed %s: %w", d.in.Name, err)
		}
		for _, ds := range d.services {
			svc, err := sups.AddService(ctx, s.ID, ds.in, domain.RoleManager)
			if err != nil {
				return fmt.Errorf("seed %s service: %w", d.in.Name, err)
			}
			if err := advance(ctx, sups, s.ID, svc, ds.state); err != nil {
				return err
			}
		}
		if r, ok := ratings.Known[s.PrimaryDomain]; ok {
			r = r.Normalize()
			r.FetchedAt = time.Now().UTC()
			if _, err := sups.UpdateSupplier(ctx, s.ID, domain.SupplierPatch{SecurityRating: &r}); err != nil {
				return err
			}
		}
	}
	return nil
}

func advance(ctx context.Context, sups ports.Suppliers, supplierID string, svc domain.Service, target domain.State) error {
	for svc.State != target {
		var action domain.Action
		switch svc.State {
		case domain.StateDraft:
			action = domain.ActionSendForReview
		case domain.StatePendingReview:
			action = domain.ActionApprove
		default:
			return fmt.Errorf("cannot reach %q from %q", target, svc.State)
		}
		next, err := sups.Transition(ctx, supplierID, svc.ID, action, domain.RoleManager)
		if err != nil {
			return err
		}
		svc = next
	}
	return nil
}

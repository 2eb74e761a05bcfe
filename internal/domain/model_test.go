package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

func newDraft(t *testing.T, scores ScoreSet) Service {
	t.Helper()
	svc, err := NewService("svc-1", ServiceInput{
		Description:  "Cloud storage",
		BusinessUnit: "IT",
		Scores:       scores,
	}, now)
	require.NoError(t, err)
	return svc
}

func assertConsistent(t *testing.T, svc Service) {
	t.Helper()
	want, err := DeriveRisk(svc.Scores())
	require.NoError(t, err)
	assert.True(t, want.WeightedAverage.Equal(svc.WeightedAverage()))
	assert.Equal(t, want.RiskLevel, svc.RiskLevel())
	assert.Equal(t, want.ReviewFrequency, svc.ReviewFrequency())
}

func TestNewService(t *testing.T) {
	t.Run("starts as a draft with derived fields and defaults", func(t *testing.T) {
		svc := newDraft(t, Uniform(5))
		assert.Equal(t, StateDraft, svc.State)
		assert.Equal(t, RiskVeryHigh, svc.RiskLevel())
		assert.Equal(t, ReviewAnnually, svc.ReviewFrequency())
		assert.Equal(t, NotOutsourcing, svc.MaterialityRating)
		assert.Equal(t, ProcurementNotStarted, svc.ProcurementStatus)
		assert.Equal(t, RegulatoryNotRequired, svc.NotificationStatus)
		assert.Equal(t, RegulatoryNotRequired, svc.DACFStatus)
		assert.Equal(t, now, svc.CreatedAt)
		assert.Equal(t, now, svc.UpdatedAt)
	})

	t.Run("requires description and business unit", func(t *testing.T) {
		_, err := NewService("x", ServiceInput{Description: "  ", BusinessUnit: "IT", Scores: Uniform(1)}, now)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = NewService("x", ServiceInput{Description: "d", Scores: Uniform(1)}, now)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects unknown enum values", func(t *testing.T) {
		_, err := NewService("x", ServiceInput{Description: "d", BusinessUnit: "b", Scores: Uniform(1), DACFStatus: "Maybe"}, now)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects invalid scores", func(t *testing.T) {
		_, err := NewService("x", ServiceInput{Description: "d", BusinessUnit: "b"}, now)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})

	t.Run("truncates dates to the day", func(t *testing.T) {
		svc, err := NewService("x", ServiceInput{
			Description:        "d",
			BusinessUnit:       "b",
			Scores:             Uniform(2),
			LastAssessmentDate: time.Date(2025, 8, 10, 15, 4, 5, 0, time.UTC),
		}, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), svc.LastAssessmentDate)
		assert.True(t, svc.NextReviewDate.IsZero())
	})
}

func TestServicePatchApply(t *testing.T) {
	later := now.Add(time.Hour)

	t.Run("recomputes from the merged score set", func(t *testing.T) {
		svc := newDraft(t, Uniform(1))
		five := 5
		p := ServicePatch{Scores: &ScoresPatch{Confidentiality: &five, IntegrityOfData: &five, AvailabilityRequirement: &five, IntegrationLevelOfAccess: &five}}
		require.NoError(t, p.Apply(&svc, later))

		assert.Equal(t, 5, svc.Scores().Confidentiality)
		assert.Equal(t, 1, svc.Scores().FinancialImpact)
		assert.Equal(t, "4.20", svc.WeightedAverage().StringFixed(2))
		assert.Equal(t, RiskVeryHigh, svc.RiskLevel())
		assertConsistent(t, svc)
		assert.Equal(t, later, svc.UpdatedAt)
	})

	t.Run("leaves derived fields alone without scores", func(t *testing.T) {
		svc := newDraft(t, Uniform(3))
		desc := "Renamed"
		require.NoError(t, ServicePatch{Description: &desc}.Apply(&svc, later))
		assert.Equal(t, "Renamed", svc.Description)
		assert.Equal(t, RiskHigh, svc.RiskLevel())
		assertConsistent(t, svc)
	})

	t.Run("replaces the whole set", func(t *testing.T) {
		svc := newDraft(t, Uniform(5))
		require.NoError(t, ServicePatch{Scores: FullScores(Uniform(2))}.Apply(&svc, later))
		assert.Equal(t, Uniform(2), svc.Scores())
		assert.Equal(t, RiskMedium, svc.RiskLevel())
		assert.Equal(t, ReviewEveryTwoYears, svc.ReviewFrequency())
	})

	t.Run("is all or nothing", func(t *testing.T) {
		svc := newDraft(t, Uniform(3))
		before := svc
		desc := "Changed"
		bad := 9
		err := ServicePatch{Description: &desc, Scores: &ScoresPatch{RegulatoryImpact: &bad}}.Apply(&svc, later)
		assert.ErrorIs(t, err, ErrInvalidScore)
		assert.Equal(t, before, svc)
	})

	t.Run("refuses services that left draft", func(t *testing.T) {
		for _, st := range []State{StatePendingReview, StateApproved} {
			svc := newDraft(t, Uniform(3))
			svc.State = st
			before := svc
			desc := "Changed"
			err := ServicePatch{Description: &desc, Scores: FullScores(Uniform(1))}.Apply(&svc, later)
			assert.ErrorIs(t, err, ErrServiceLocked)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, before, svc)
		}
	})
}

func TestSupplierCloneIsDeep(t *testing.T) {
	s := Supplier{
		ID:             "s",
		AdditionalURLs: []string{"a.example.com"},
		Services:       []Service{newDraft(t, Uniform(2))},
		SecurityRating: &SecurityRating{Domain: "example.com", WeakestFactors: []Factor{{Name: "DNS Health", Score: 70}}},
	}
	c := s.Clone()
	c.AdditionalURLs[0] = "changed"
	c.Services[0].Description = "changed"
	c.SecurityRating.WeakestFactors[0].Score = 1

	assert.Equal(t, "a.example.com", s.AdditionalURLs[0])
	assert.Equal(t, "Cloud storage", s.Services[0].Description)
	assert.Equal(t, 70, s.SecurityRating.WeakestFactors[0].Score)
}

func TestSupplierPatchApply(t *testing.T) {
	s := Supplier{ID: "s", Name: "Acme", PrimaryDomain: "acme.com", CreatedAt: now, UpdatedAt: now}
	name := "Acme Corp"
	rating := SecurityRating{Domain: "acme.com", Score: 81, Grade: "B"}
	SupplierPatch{Name: &name, SecurityRating: &rating}.Apply(&s, now.Add(time.Minute))

	assert.Equal(t, "Acme Corp", s.Name)
	assert.Equal(t, "acme.com", s.PrimaryDomain)
	require.NotNil(t, s.SecurityRating)
	assert.Equal(t, 81, s.SecurityRating.Score)
	assert.Equal(t, now, s.CreatedAt)
	assert.Equal(t, now.Add(time.Minute), s.UpdatedAt)
}

func TestSupplierPatchDomainChangeDropsRating(t *testing.T) {
	rating := SecurityRating{Domain: "acme.com", Score: 81}
	s := Supplier{ID: "s", PrimaryDomain: "acme.com", SecurityRating: &rating}

	same := "acme.com"
	SupplierPatch{PrimaryDomain: &same}.Apply(&s, now)
	require.NotNil(t, s.SecurityRating)

	moved := "acme.io"
	SupplierPatch{PrimaryDomain: &moved}.Apply(&s, now)
	assert.Nil(t, s.SecurityRating)

	fresh := SecurityRating{Domain: "acme.net", Score: 70}
	other := "acme.net"
	SupplierPatch{PrimaryDomain: &other, SecurityRating: &fresh}.Apply(&s, now)
	require.NotNil(t, s.SecurityRating)
	assert.Equal(t, "acme.net", s.SecurityRating.Domain)
}

func TestRatingNormalize(t *testing.T) {
	r := SecurityRating{WeakestFactors: []Factor{{"A", 90}, {"B", 40}, {"C", 70}, {"D", 55}}}
	n := r.Normalize()
	assert.Equal(t, []Factor{{"B", 40}, {"D", 55}, {"C", 70}}, n.WeakestFactors)
	assert.Len(t, r.WeakestFactors, 4)
}

func TestGradeFor(t *testing.T) {
	assert.Equal(t, "A", GradeFor(92))
	assert.Equal(t, "B", GradeFor(88))
	assert.Equal(t, "C", GradeFor(70))
	assert.Equal(t, "D", GradeFor(65))
	assert.Equal(t, "F", GradeFor(12))
}

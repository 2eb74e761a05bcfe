package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MinScore = 1
	MaxScore = 5
)

type RiskLevel string

const (
	RiskVeryHigh RiskLevel = "Very high"
	RiskHigh     RiskLevel = "High"
	RiskMedium   RiskLevel = "Medium"
	RiskLow      RiskLevel = "Low"
)

// rank orders risk levels from Low (0) to Very high (3).
func (r RiskLevel) rank() int {
	switch r {
	case RiskVeryHigh:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	}
	return 0
}

type ReviewFrequency string

const (
	ReviewAnnually        ReviewFrequency = "Annually"
	ReviewEveryTwoYears   ReviewFrequency = "Once in two years"
	ReviewEveryThreeYears ReviewFrequency = "Once in three years"
)

// ScoreSet holds the eight ordinal ratings of a service, each in [1,5].
type ScoreSet struct {
	Confidentiality          int `json:"confidentiality"`
	IntegrityOfData          int `json:"integrityOfData"`
	AvailabilityRequirement  int `json:"availabilityRequirement"`
	IntegrationLevelOfAccess int `json:"integrationLevelOfAccess"`
	ReputationalImpact       int `json:"reputationalImpact"`
	RegulatoryImpact         int `json:"regulatoryImpact"`
	FinancialImpact          int `json:"financialImpact"`
	CustomerServiceImpact    int `json:"customerServiceImpact"`
}

// Dimension is one weighted axis of a ScoreSet.
type Dimension struct {
	Name   string
	Weight decimal.Decimal
	value  func(ScoreSet) int
}

// Dimensions lists the scoring axes in a fixed order. The weights sum to 1.00.
var Dimensions = []Dimension{
	{Name: "confidentiality", Weight: decimal.RequireFromString("0.20"), value: func(s ScoreSet) int { return s.Confidentiality }},
	{Name: "integrityOfData", Weight: decimal.RequireFromString("0.20"), value: func(s ScoreSet) int { return s.IntegrityOfData }},
	{Name: "availabilityRequirement", Weight: decimal.RequireFromString("0.20"), value: func(s ScoreSet) int { return s.AvailabilityRequirement }},
	{Name: "integrationLevelOfAccess", Weight: decimal.RequireFromString("0.20"), value: func(s ScoreSet) int { return s.IntegrationLevelOfAccess }},
	{Name: "reputationalImpact", Weight: decimal.RequireFromString("0.05"), value: func(s ScoreSet) int { return s.ReputationalImpact }},
	{Name: "regulatoryImpact", Weight: decimal.RequireFromString("0.05"), value: func(s ScoreSet) int { return s.RegulatoryImpact }},
	{Name: "financialImpact", Weight: decimal.RequireFromString("0.05"), value: func(s ScoreSet) int { return s.FinancialImpact }},
	{Name: "customerServiceImpact", Weight: decimal.RequireFromString("0.05"), value: func(s ScoreSet) int { return s.CustomerServiceImpact }},
}

// Value returns the rating of the dimension in s.
func (d Dimension) Value(s ScoreSet) int { return d.value(s) }

// Validate reports the first dimension outside [MinScore, MaxScore].
func (s ScoreSet) Validate() error {
	for _, d := range Dimensions {
		if v := d.value(s); v < MinScore || v > MaxScore {
			return fmt.Errorf("%w: %s=%d, want %d..%d", ErrInvalidScore, d.Name, v, MinScore, MaxScore)
		}
	}
	return nil
}

// Uniform returns a ScoreSet with every dimension set to v.
func Uniform(v int) ScoreSet {
	return ScoreSet{v, v, v, v, v, v, v, v}
}

// Assessment is the derived view of a ScoreSet.
type Assessment struct {
	WeightedAverage decimal.Decimal
	RiskLevel       RiskLevel
	ReviewFrequency ReviewFrequency
}

var (
	four  = decimal.NewFromInt(4)
	three = decimal.NewFromInt(3)
	two   = decimal.NewFromInt(2)
)

// DeriveRisk computes the weighted average of scores (rounded half-up to two
// decimals) and classifies it. Out-of-range ratings are rejected, not clamped.
func DeriveRisk(scores ScoreSet) (Assessment, error) {
	if err := scores.Validate(); err != nil {
		return Assessment{}, err
	}
	total := decimal.Zero
	for _, d := range Dimensions {
		total = total.Add(decimal.NewFromInt(int64(d.value(scores))).Mul(d.Weight))
	}
	avg := total.Round(2)
	return Assessment{
		WeightedAverage: avg,
		RiskLevel:       RiskLevelFor(avg),
		ReviewFrequency: ReviewFrequencyFor(avg),
	}, nil
}

// RiskLevelFor maps a weighted average to its tier. Bounds are inclusive.
func RiskLevelFor(avg decimal.Decimal) RiskLevel {
	switch {
	case avg.GreaterThanOrEqual(four):
		return RiskVeryHigh
	case avg.GreaterThanOrEqual(three):
		return RiskHigh
	case avg.GreaterThanOrEqual(two):
		return RiskMedium
	}
	return RiskLow
}

// ReviewFrequencyFor maps a weighted average to its review cadence.
func ReviewFrequencyFor(avg decimal.Decimal) ReviewFrequency {
	switch {
	case avg.GreaterThanOrEqual(three):
		return ReviewAnnually
	case avg.GreaterThanOrEqual(two):
		return ReviewEveryTwoYears
	}
	return ReviewEveryThreeYears
}

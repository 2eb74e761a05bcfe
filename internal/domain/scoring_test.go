package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionWeightsSumToOne(t *testing.T) {
	total := decimal.Zero
	for _, d := range Dimensions {
		total = total.Add(d.Weight)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(1)), "got %s", total)
	assert.Len(t, Dimensions, 8)
}

func TestDeriveRisk(t *testing.T) {
	t.Run("uniform score sets average to the score", func(t *testing.T) {
		for v := MinScore; v <= MaxScore; v++ {
			a, err := DeriveRisk(Uniform(v))
			require.NoError(t, err)
			assert.True(t, a.WeightedAverage.Equal(decimal.NewFromInt(int64(v))), "v=%d got %s", v, a.WeightedAverage)
		}
	})

	t.Run("all threes are high risk reviewed annually", func(t *testing.T) {
		a, err := DeriveRisk(Uniform(3))
		require.NoError(t, err)
		assert.Equal(t, "3.00", a.WeightedAverage.StringFixed(2))
		assert.Equal(t, RiskHigh, a.RiskLevel)
		assert.Equal(t, ReviewAnnually, a.ReviewFrequency)
	})

	t.Run("weights the first four dimensions heavier", func(t *testing.T) {
		s := Uniform(1)
		s.Confidentiality = 5
		a, err := DeriveRisk(s)
		require.NoError(t, err)
		assert.Equal(t, "1.80", a.WeightedAverage.StringFixed(2))

		s = Uniform(1)
		s.CustomerServiceImpact = 5
		a, err = DeriveRisk(s)
		require.NoError(t, err)
		assert.Equal(t, "1.20", a.WeightedAverage.StringFixed(2))
		assert.Equal(t, RiskLow, a.RiskLevel)
		assert.Equal(t, ReviewEveryThreeYears, a.ReviewFrequency)
	})

	t.Run("reference services", func(t *testing.T) {
		office := ScoreSet{5, 4, 5, 4, 3, 4, 3, 4}
		a, err := DeriveRisk(office)
		require.NoError(t, err)
		assert.Equal(t, "4.30", a.WeightedAverage.StringFixed(2))
		assert.Equal(t, RiskVeryHigh, a.RiskLevel)

		s3 := ScoreSet{2, 3, 3, 2, 2, 2, 2, 2}
		a, err = DeriveRisk(s3)
		require.NoError(t, err)
		assert.Equal(t, "2.40", a.WeightedAverage.StringFixed(2))
		assert.Equal(t, RiskMedium, a.RiskLevel)
		assert.Equal(t, ReviewEveryTwoYears, a.ReviewFrequency)
	})

	t.Run("is deterministic", func(t *testing.T) {
		s := ScoreSet{4, 2, 5, 1, 3, 3, 2, 5}
		a1, err := DeriveRisk(s)
		require.NoError(t, err)
		a2, err := DeriveRisk(s)
		require.NoError(t, err)
		assert.True(t, a1.WeightedAverage.Equal(a2.WeightedAverage))
		assert.Equal(t, a1.RiskLevel, a2.RiskLevel)
		assert.Equal(t, a1.ReviewFrequency, a2.ReviewFrequency)
	})

	t.Run("rejects out of range ratings", func(t *testing.T) {
		s := Uniform(3)
		s.FinancialImpact = 6
		_, err := DeriveRisk(s)
		assert.ErrorIs(t, err, ErrInvalidScore)
		assert.ErrorIs(t, err, ErrInvalidInput)

		s = Uniform(3)
		s.Confidentiality = 0
		_, err = DeriveRisk(s)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})
}

func TestThresholds(t *testing.T) {
	risk := []struct {
		avg  string
		want RiskLevel
	}{
		{"5.00", RiskVeryHigh},
		{"4.00", RiskVeryHigh},
		{"3.99", RiskHigh},
		{"3.00", RiskHigh},
		{"2.99", RiskMedium},
		{"2.00", RiskMedium},
		{"1.99", RiskLow},
		{"1.00", RiskLow},
	}
	for _, tc := range risk {
		assert.Equal(t, tc.want, RiskLevelFor(decimal.RequireFromString(tc.avg)), tc.avg)
	}

	freq := []struct {
		avg  string
		want ReviewFrequency
	}{
		{"4.50", ReviewAnnually},
		{"3.00", ReviewAnnually},
		{"2.99", ReviewEveryTwoYears},
		{"2.00", ReviewEveryTwoYears},
		{"1.99", ReviewEveryThreeYears},
	}
	for _, tc := range freq {
		assert.Equal(t, tc.want, ReviewFrequencyFor(decimal.RequireFromString(tc.avg)), tc.avg)
	}
}

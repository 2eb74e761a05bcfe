package domain

import (
	"sort"
	"time"
)

// MaxWeakestFactors bounds the weakest-factor list kept on a rating.
const MaxWeakestFactors = 3

type Factor struct {
	Name  string `json:"factor"`
	Score int    `json:"score"`
}

// SecurityRating is an external, cacheable snapshot of a domain's posture.
type SecurityRating struct {
	Domain         string    `json:"domain"`
	Score          int       `json:"score"`
	Grade          string    `json:"grade"`
	LastUpdated    time.Time `json:"last_updated"`
	WeakestFactors []Factor  `json:"weakest_factors"`
	FetchedAt      time.Time `json:"fetched_at"`
}

func (r SecurityRating) Clone() SecurityRating {
	r.WeakestFactors = append([]Factor(nil), r.WeakestFactors...)
	return r
}

// Normalize keeps the MaxWeakestFactors lowest-scoring factors, lowest first.
func (r SecurityRating) Normalize() SecurityRating {
	r = r.Clone()
	sort.SliceStable(r.WeakestFactors, func(i, j int) bool {
		return r.WeakestFactors[i].Score < r.WeakestFactors[j].Score
	})
	if len(r.WeakestFactors) > MaxWeakestFactors {
		r.WeakestFactors = r.WeakestFactors[:MaxWeakestFactors]
	}
	return r
}

// GradeFor maps a 0-100 score to a letter grade.
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	}
	return "F"
}

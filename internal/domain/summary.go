package domain

// Summary aggregates a supplier's services.
type Summary struct {
	HighestRisk     RiskLevel
	StateCounts     map[State]int
	ReviewFrequency ReviewFrequency
	Services        int
}

// Summarize reports the highest service risk (Low when there are none), the
// number of services per state and the most common review frequency. Ties go
// to the frequency seen last.
func Summarize(s Supplier) Summary {
	out := Summary{
		HighestRisk:     RiskLow,
		StateCounts:     map[State]int{StateDraft: 0, StatePendingReview: 0, StateApproved: 0},
		ReviewFrequency: ReviewEveryThreeYears,
		Services:        len(s.Services),
	}
	counts := map[ReviewFrequency]int{}
	var order []ReviewFrequency
	for _, svc := range s.Services {
		if svc.RiskLevel().rank() > out.HighestRisk.rank() {
			out.HighestRisk = svc.RiskLevel()
		}
		out.StateCounts[svc.State]++
		f := svc.ReviewFrequency()
		if counts[f] == 0 {
			order = append(order, f)
		}
		counts[f]++
	}
	best := 0
	for _, f := range order {
		if counts[f] >= best {
			best = counts[f]
			out.ReviewFrequency = f
		}
	}
	return out
}

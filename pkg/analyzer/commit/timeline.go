package commit

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Trend thresholds for per-row arrows: a change beyond 10% of the previous
// commit's complexity is reported as a move.
const (
	trendRiseFactor = 1.1
	trendFallFactor = 0.9
)

// Trends returns one direction per commit, comparing each commit's complexity
// with the previous one. The first commit is always stable.
func (t *Timeline) Trends() []Direction {
	trends := make([]Direction, len(t.Commits))
	for i, c := range t.Commits {
		if i == 0 {
			trends[i] = DirectionStable
			continue
		}
		trends[i] = trendBetween(float64(t.Commits[i-1].CyclomaticComplexity), float64(c.CyclomaticComplexity))
	}
	return trends
}

func trendBetween(previous, current float64) Direction {
	switch {
	case current > previous*trendRiseFactor:
		return DirectionUp
	case current < previous*trendFallFactor:
		return DirectionDown
	default:
		return DirectionStable
	}
}

// Summary computes the statistics shown next to the timeline.
func (t *Timeline) Summary() Summary {
	n := len(t.Commits)
	s := Summary{Commits: n, ComplexityDirection: DirectionStable}
	if n == 0 {
		return s
	}

	s.Start = t.Commits[0].Date
	s.End = t.Commits[n-1].Date

	xs := make([]float64, n)
	complexity := make([]float64, n)
	mi := make([]float64, n)
	coupling := make([]float64, n)

	for i, c := range t.Commits {
		xs[i] = float64(i)
		complexity[i] = float64(c.CyclomaticComplexity)
		mi[i] = c.MaintainabilityIndex
		coupling[i] = c.Coupling
		s.TotalSmells += c.CodeSmells
		if c.CyclomaticComplexity > s.MaxComplexity {
			s.MaxComplexity = c.CyclomaticComplexity
		}
	}

	s.AvgComplexity = round2(stat.Mean(complexity, nil))
	s.AvgCoupling = round2(stat.Mean(coupling, nil))
	s.AvgMaintainability = round2(stat.Mean(mi, nil))

	if n < 2 {
		return s
	}

	first, last := complexity[0], complexity[n-1]
	switch {
	case last > first:
		s.ComplexityDirection = DirectionUp
	case last < first:
		s.ComplexityDirection = DirectionDown
	}

	intercept, slope := stat.LinearRegression(xs, complexity, nil, false)
	s.ComplexitySlope = round2(slope)
	// RSquared is NaN when complexity never changes.
	if r2 := stat.RSquared(xs, complexity, nil, intercept, slope); !math.IsNaN(r2) {
		s.ComplexityRSquared = round2(r2)
	}

	_, miSlope := stat.LinearRegression(xs, mi, nil, false)
	s.MaintainabilitySlope = round2(miSlope)

	return s
}

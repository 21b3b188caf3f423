package insights

import (
	"math"
	"sort"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

func ConfidenceWeight(s domain.Significance) float64 {
	switch s {
	case domain.SignificanceHigh:
		return 1.5
	case domain.SignificanceMedium:
		return 1.0
	default:
		return 0.5
	}
}

// ImpactScore combines correlation strength with confidence.
func ImpactScore(c domain.Correlation) float64 {
	return math.Abs(c.Coefficient) * ConfidenceWeight(c.Significance)
}

// RankByImpact returns a copy of correlations sorted by descending impact
// score. Equal scores keep their input order.
func RankByImpact(correlations []domain.Correlation) []domain.Correlation {
	ranked := make([]domain.Correlation, len(correlations))
	copy(ranked, correlations)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ImpactScore(ranked[i]) > ImpactScore(ranked[j])
	})
	return ranked
}

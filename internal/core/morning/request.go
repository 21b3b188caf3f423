package morning

import (
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

// TodayData is the morning snapshot of biometrics plus the history figures
// derived from it. RecoveryScore and SleepHours are optional.
type TodayData struct {
	HRV           float64  `json:"hrv"`
	SevenDayAvg   float64  `json:"avg7Day"`
	RecoveryScore *float64 `json:"recoveryScore,omitempty"`
	SleepHours    *float64 `json:"sleepHours,omitempty"`
	Trend         string   `json:"trend,omitempty"`
}

// Request bundles every input of the morning pipeline. Correlations are
// expected in ranked order.
type Request struct {
	Today         TodayData             `json:"today"`
	YesterdayPlan *domain.PlanAdherence `json:"yesterdayPlan,omitempty"`
	Correlations  []domain.Correlation  `json:"correlations"`
	Profile       domain.HealthProfile  `json:"profile"`
}

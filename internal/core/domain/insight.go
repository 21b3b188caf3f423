package domain

// Significance is the coarse confidence band attached to a correlation.
type Significance string

const (
	SignificanceHigh   Significance = "high"
	SignificanceMedium Significance = "medium"
	SignificanceLow    Significance = "low"
)

type HabitKind string

const (
	HabitKindBinary  HabitKind = "binary"
	HabitKindNumeric HabitKind = "numeric"
)

// Correlation describes the association between one habit and HRV. It is
// always derived from the current readings and habit logs.
type Correlation struct {
	HabitKey             string       `json:"habitKey"`
	HabitLabel           string       `json:"habitLabel"`
	Coefficient          float64      `json:"coefficient"`
	AvgValueWithHabit    float64      `json:"avgValueWithHabit"`
	AvgValueWithoutHabit float64      `json:"avgValueWithoutHabit"`
	PercentageDiff       float64      `json:"percentageDiff"`
	SampleSize           int          `json:"sampleSize"`
	Significance         Significance `json:"significance"`
}

type RecommendationAction string

const (
	ActionIncrease RecommendationAction = "increase"
	ActionDecrease RecommendationAction = "decrease"
)

type Recommendation struct {
	HabitKey       string               `json:"habitKey"`
	HabitLabel     string               `json:"habitLabel"`
	Action         RecommendationAction `json:"action"`
	ImpactScore    float64              `json:"impactScore"`
	Message        string               `json:"message"`
	ExpectedImpact string               `json:"expectedImpact"`
}

type HabitAnalysis struct {
	Correlations   []Correlation `json:"correlations"`
	TotalDays      int           `json:"totalDays"`
	SufficientData bool          `json:"sufficientData"`
}

// Streak counts consecutive days on which both a reading and a habit log
// were recorded.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// InsightReport is the cached unit served by the insights endpoints.
type InsightReport struct {
	HabitAnalysis
	AsOf          string `json:"asOf"`
	UseLag        bool   `json:"useLag"`
	LoggingStreak Streak `json:"loggingStreak"`
}

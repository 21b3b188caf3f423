package insights

import (
	"fmt"
	"math"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

// SignificanceResult is the outcome of the significance heuristic. Only
// Level feeds ranking; PValue and Description are for display.
type SignificanceResult struct {
	Level       domain.Significance `json:"level"`
	TStatistic  float64             `json:"tStatistic"`
	PValue      float64             `json:"pValue"`
	Description string              `json:"description"`
}

// tBand holds two-tailed critical t values for a minimum number of degrees
// of freedom. A |t| above critical[i] maps to pValues[i].
type tBand struct {
	minDF    int
	critical [4]float64
}

// Critical values at p = 0.001, 0.01, 0.05, 0.10 for df = 30, 14, 8 and 5.
var tBands = []tBand{
	{minDF: 30, critical: [4]float64{3.646, 2.750, 2.042, 1.697}},
	{minDF: 14, critical: [4]float64{4.140, 2.977, 2.145, 1.761}},
	{minDF: 8, critical: [4]float64{5.041, 3.355, 2.306, 1.860}},
	{minDF: 0, critical: [4]float64{6.869, 4.032, 2.571, 2.015}},
}

// Each p value sits strictly inside the band it represents so that the
// rule table can use strict comparisons.
var bandPValues = [4]float64{0.0005, 0.005, 0.025, 0.075}

const notSignificantPValue = 0.5

type significanceRule struct {
	level          domain.Significance
	minSampleSize  int
	minCoefficient float64
	maxPValue      float64
}

// Evaluated top-down; the first matching rule wins, otherwise low.
var significanceRules = []significanceRule{
	{level: domain.SignificanceHigh, minSampleSize: 30, minCoefficient: 0.5, maxPValue: 0.01},
	{level: domain.SignificanceMedium, minSampleSize: 14, minCoefficient: 0.3, maxPValue: 0.05},
}

// TStatistic computes r*sqrt(n-2)/sqrt(1-r^2). Perfect correlations give
// an infinite statistic.
func TStatistic(r float64, n int) float64 {
	if n < 3 {
		return 0
	}
	denom := math.Sqrt(1 - r*r)
	if denom == 0 {
		return math.Copysign(math.Inf(1), r)
	}
	return r * math.Sqrt(float64(n-2)) / denom
}

// ApproximatePValue maps |t| and the degrees of freedom to a coarse p value.
func ApproximatePValue(t float64, df int) float64 {
	if df <= 0 {
		return 1
	}
	absT := math.Abs(t)
	for _, band := range tBands {
		if df < band.minDF {
			continue
		}
		for i, crit := range band.critical {
			if absT > crit {
				return bandPValues[i]
			}
		}
		return notSignificantPValue
	}
	return notSignificantPValue
}

// Assess classifies a coefficient computed over n paired samples.
func Assess(r float64, n int) SignificanceResult {
	t := TStatistic(r, n)
	p := ApproximatePValue(t, n-2)

	level := domain.SignificanceLow
	absR := math.Abs(r)
	for _, rule := range significanceRules {
		if n >= rule.minSampleSize && absR >= rule.minCoefficient && p < rule.maxPValue {
			level = rule.level
			break
		}
	}

	return SignificanceResult{
		Level:       level,
		TStatistic:  t,
		PValue:      p,
		Description: describe(level, p, n),
	}
}

func describe(level domain.Significance, p float64, n int) string {
	switch level {
	case domain.SignificanceHigh:
		return fmt.Sprintf("Strong evidence of a relationship (p < 0.01, %d days)", n)
	case domain.SignificanceMedium:
		return fmt.Sprintf("Moderate evidence of a relationship (p < 0.05, %d days)", n)
	}
	if p < 0.1 {
		return fmt.Sprintf("Early signal, keep logging to confirm (%d days)", n)
	}
	return fmt.Sprintf("Not enough evidence yet (%d days)", n)
}

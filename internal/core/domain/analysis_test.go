package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthProfile_Validate(t *testing.T) {
	target := 70.0
	zero := 0.0

	tests := []struct {
		name    string
		profile HealthProfile
		want    error
	}{
		{"Valid minimal", HealthProfile{UserID: "u"}, nil},
		{"Valid full", HealthProfile{UserID: "u", Age: 35, Gender: GenderFemale, TargetHRV: &target}, nil},
		{"Missing user", HealthProfile{}, ErrInvalidUserID},
		{"Age too high", HealthProfile{UserID: "u", Age: 130}, ErrInvalidAge},
		{"Unknown gender", HealthProfile{UserID: "u", Gender: "other"}, ErrInvalidGender},
		{"Zero target", HealthProfile{UserID: "u", TargetHRV: &zero}, ErrInvalidTargetHRV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPlanAdherence_Validate(t *testing.T) {
	bad := 7
	good := 4

	assert.NoError(t, (&PlanAdherence{CompletedActions: 3, TotalActions: 4, DayQuality: &good}).Validate())
	assert.ErrorIs(t, (&PlanAdherence{CompletedActions: 5, TotalActions: 4}).Validate(), ErrInvalidActionCounts)
	assert.ErrorIs(t, (&PlanAdherence{CompletedActions: -1, TotalActions: 4}).Validate(), ErrInvalidActionCounts)
	assert.ErrorIs(t, (&PlanAdherence{DayQuality: &bad}).Validate(), ErrInvalidDayQuality)
}

func TestDailyAnalysis_WireShape(t *testing.T) {
	analysis := DailyAnalysis{
		Status:               StatusAssessment{HRVPercentile: 42, VsSevenDayAvg: -3, RecoveryState: "Needs Recovery"},
		Insights:             []string{},
		PreviousDayLearnings: []string{},
		FocusArea:            FocusRecovery,
		Recommendations:      []PlanItem{},
		EstimatedEndOfDayHRV: 45,
	}

	raw, err := json.Marshal(analysis)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, key := range []string{"status", "insights", "previousDayLearnings", "focusArea", "reasoning", "recommendations", "estimatedEndOfDayHRV"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "goalProgress")
	assert.Equal(t, "Recovery", fields["focusArea"])
	assert.Contains(t, fields["status"], "vsSevenDayAvg")
}

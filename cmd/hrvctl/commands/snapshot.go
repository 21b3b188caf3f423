package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/services"
)

const defaultSnapshotUser = "local"

// snapshotFile is the on-disk input of hrvctl. JSON is valid YAML, so both
// formats go through the same decoder.
type snapshotFile struct {
	UserID        string        `yaml:"userId,omitempty"`
	Profile       *profileDoc   `yaml:"profile,omitempty"`
	Readings      []readingDoc  `yaml:"readings"`
	Habits        []habitDoc    `yaml:"habits"`
	YesterdayPlan *adherenceDoc `yaml:"yesterdayPlan,omitempty"`
}

type profileDoc struct {
	Age           int      `yaml:"age,omitempty"`
	Gender        string   `yaml:"gender,omitempty"`
	TargetHRV     *float64 `yaml:"targetHRV,omitempty"`
	PrimaryGoal   string   `yaml:"primaryGoal,omitempty"`
	ActivityLevel string   `yaml:"activityLevel,omitempty"`
}

type readingDoc struct {
	Date          string   `yaml:"date"`
	HRVMs         float64  `yaml:"hrvMs"`
	RestingHR     float64  `yaml:"restingHR,omitempty"`
	RecoveryScore *float64 `yaml:"recoveryScore,omitempty"`
	Source        string   `yaml:"source,omitempty"`
}

type habitDoc struct {
	Date         string         `yaml:"date"`
	Sleep        *sleepDoc      `yaml:"sleep,omitempty"`
	Exercise     *exerciseDoc   `yaml:"exercise,omitempty"`
	Alcohol      *alcoholDoc    `yaml:"alcohol,omitempty"`
	Meditation   *meditationDoc `yaml:"meditation,omitempty"`
	StressLevel  *int           `yaml:"stressLevel,omitempty"`
	ColdExposure *bool          `yaml:"coldExposure,omitempty"`
	Notes        *string        `yaml:"notes,omitempty"`
}

type sleepDoc struct {
	Hours   float64 `yaml:"hours"`
	Quality int     `yaml:"quality"`
}

type exerciseDoc struct {
	Type         string `yaml:"type"`
	DurationMins int    `yaml:"durationMins"`
	Intensity    string `yaml:"intensity"`
}

type alcoholDoc struct {
	Consumed bool     `yaml:"consumed"`
	Units    *float64 `yaml:"units,omitempty"`
}

type meditationDoc struct {
	Practiced    bool `yaml:"practiced"`
	DurationMins *int `yaml:"durationMins,omitempty"`
}

type adherenceDoc struct {
	CompletedActions int    `yaml:"completedActions"`
	TotalActions     int    `yaml:"totalActions"`
	DayQuality       *int   `yaml:"dayQuality,omitempty"`
	Notes            string `yaml:"notes,omitempty"`
}

func readSnapshot(path string) (*snapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap snapshotFile
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	if strings.TrimSpace(snap.UserID) == "" {
		snap.UserID = defaultSnapshotUser
	}
	return &snap, nil
}

// workspace is an in-memory deployment of the services, seeded from a
// snapshot file.
type workspace struct {
	userID        string
	latest        time.Time
	yesterdayPlan *domain.PlanAdherence
	insights      *services.InsightService
	morning       *services.MorningService
}

func loadWorkspace(ctx context.Context, path string, windowDays int) (*workspace, error) {
	snap, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}

	readingRepo := repository.NewInMemoryReadingRepository()
	habitRepo := repository.NewInMemoryHabitLogRepository()
	profileRepo := repository.NewInMemoryProfileRepository()
	planRepo := repository.NewInMemoryPlanRepository()

	readingSvc := services.NewReadingService(readingRepo, nil, nil)
	habitSvc := services.NewHabitLogService(habitRepo, nil, nil)
	insightSvc := services.NewInsightService(readingRepo, habitRepo, nil, windowDays)

	ws := &workspace{
		userID:   snap.UserID,
		insights: insightSvc,
		morning:  services.NewMorningService(readingRepo, habitRepo, profileRepo, planRepo, insightSvc),
	}

	for i, r := range snap.Readings {
		date, err := domain.ParseDay(r.Date)
		if err != nil {
			return nil, fmt.Errorf("readings[%d]: invalid date %q", i, r.Date)
		}
		_, err = readingSvc.Record(ctx, services.RecordReadingInput{
			UserID:        snap.UserID,
			Date:          date,
			HRVMs:         r.HRVMs,
			RestingHR:     r.RestingHR,
			RecoveryScore: r.RecoveryScore,
			Source:        r.Source,
		})
		if err != nil {
			return nil, fmt.Errorf("readings[%d] (%s): %w", i, r.Date, err)
		}
		if date.After(ws.latest) {
			ws.latest = date
		}
	}

	for i, h := range snap.Habits {
		date, err := domain.ParseDay(h.Date)
		if err != nil {
			return nil, fmt.Errorf("habits[%d]: invalid date %q", i, h.Date)
		}
		if _, err := habitSvc.Log(ctx, services.LogHabitsInput{UserID: snap.UserID, Date: date, Patch: h.patch()}); err != nil {
			return nil, fmt.Errorf("habits[%d] (%s): %w", i, h.Date, err)
		}
	}

	if p := snap.Profile; p != nil {
		profileSvc := services.NewProfileService(profileRepo)
		_, err := profileSvc.Save(ctx, services.SaveProfileInput{
			UserID:        snap.UserID,
			Age:           p.Age,
			Gender:        p.Gender,
			TargetHRV:     p.TargetHRV,
			PrimaryGoal:   p.PrimaryGoal,
			ActivityLevel: p.ActivityLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("profile: %w", err)
		}
	}

	if a := snap.YesterdayPlan; a != nil {
		ws.yesterdayPlan = &domain.PlanAdherence{
			CompletedActions: a.CompletedActions,
			TotalActions:     a.TotalActions,
			DayQuality:       a.DayQuality,
			Notes:            a.Notes,
		}
	}

	return ws, nil
}

func (h habitDoc) patch() domain.HabitEntryPatch {
	p := domain.HabitEntryPatch{
		StressLevel:  h.StressLevel,
		ColdExposure: h.ColdExposure,
		Notes:        h.Notes,
		NoExercise:   h.Exercise == nil,
	}
	if h.Sleep != nil {
		p.Sleep = &domain.SleepLog{Hours: h.Sleep.Hours, Quality: h.Sleep.Quality}
	}
	if h.Exercise != nil {
		p.Exercise = &domain.ExerciseLog{Type: h.Exercise.Type, DurationMins: h.Exercise.DurationMins, Intensity: h.Exercise.Intensity}
	}
	if h.Alcohol != nil {
		p.Alcohol = &domain.AlcoholLog{Consumed: h.Alcohol.Consumed, Units: h.Alcohol.Units}
	}
	if h.Meditation != nil {
		p.Meditation = &domain.MeditationLog{Practiced: h.Meditation.Practiced, DurationMins: h.Meditation.DurationMins}
	}
	return p
}

// resolveDay returns the --date flag, or the latest reading in the snapshot.
func (ws *workspace) resolveDay(flag string) (time.Time, error) {
	if flag != "" {
		day, err := domain.ParseDay(flag)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", flag)
		}
		return day, nil
	}
	if ws.latest.IsZero() {
		return domain.Day(time.Now().UTC()), nil
	}
	return ws.latest, nil
}

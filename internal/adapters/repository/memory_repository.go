package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

var (
	_ domain.ReadingRepository  = (*InMemoryReadingRepository)(nil)
	_ domain.HabitLogRepository = (*InMemoryHabitLogRepository)(nil)
	_ domain.ProfileRepository  = (*InMemoryProfileRepository)(nil)
	_ domain.PlanRepository     = (*InMemoryPlanRepository)(nil)
	_ domain.UserRepository     = (*InMemoryUserRepository)(nil)
)

func dayKey(userID string, date time.Time) string {
	return userID + "|" + domain.DayKey(domain.Day(date))
}

func inRange(date, from, to time.Time) bool {
	d := domain.Day(date)
	return !d.Before(domain.Day(from)) && !d.After(domain.Day(to))
}

type InMemoryReadingRepository struct {
	store map[string]domain.BiometricReading

	mu sync.RWMutex
}

func NewInMemoryReadingRepository() *InMemoryReadingRepository {
	return &InMemoryReadingRepository{
		store: make(map[string]domain.BiometricReading),
	}
}

func (r *InMemoryReadingRepository) Upsert(ctx context.Context, reading *domain.BiometricReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reading.ID == "" {
		reading.ID = uuid.NewString()
	}
	stored := *reading
	stored.Date = domain.Day(reading.Date)
	r.store[dayKey(reading.UserID, reading.Date)] = stored
	return nil
}

func (r *InMemoryReadingRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.BiometricReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reading, ok := r.store[dayKey(userID, date)]
	if !ok {
		return nil, domain.ErrReadingNotFound
	}
	return &reading, nil
}

func (r *InMemoryReadingRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.BiometricReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	readings := []domain.BiometricReading{}
	for _, reading := range r.store {
		if reading.UserID == userID && inRange(reading.Date, from, to) {
			readings = append(readings, reading)
		}
	}

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Date.Before(readings[j].Date)
	})
	return readings, nil
}

type InMemoryHabitLogRepository struct {
	store map[string]domain.HabitEntry

	mu sync.RWMutex
}

func NewInMemoryHabitLogRepository() *InMemoryHabitLogRepository {
	return &InMemoryHabitLogRepository{
		store: make(map[string]domain.HabitEntry),
	}
}

// cloneEntry copies the pointer sub-records so callers cannot mutate the
// stored entry.
func cloneEntry(e domain.HabitEntry) domain.HabitEntry {
	if e.Sleep != nil {
		s := *e.Sleep
		e.Sleep = &s
	}
	if e.StressLevel != nil {
		v := *e.StressLevel
		e.StressLevel = &v
	}
	if e.Exercise != nil {
		ex := *e.Exercise
		e.Exercise = &ex
	}
	if e.Alcohol.Units != nil {
		u := *e.Alcohol.Units
		e.Alcohol.Units = &u
	}
	if e.Meditation.DurationMins != nil {
		m := *e.Meditation.DurationMins
		e.Meditation.DurationMins = &m
	}
	return e
}

func (r *InMemoryHabitLogRepository) Upsert(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	stored := cloneEntry(*entry)
	stored.Date = domain.Day(entry.Date)
	r.store[dayKey(entry.UserID, entry.Date)] = stored
	return nil
}

func (r *InMemoryHabitLogRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[dayKey(userID, date)]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	out := cloneEntry(entry)
	return &out, nil
}

func (r *InMemoryHabitLogRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []domain.HabitEntry{}
	for _, entry := range r.store {
		if entry.UserID == userID && inRange(entry.Date, from, to) {
			entries = append(entries, cloneEntry(entry))
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

type InMemoryProfileRepository struct {
	store map[string]domain.HealthProfile

	mu sync.RWMutex
}

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		store: make(map[string]domain.HealthProfile),
	}
}

func (r *InMemoryProfileRepository) Get(ctx context.Context, userID string) (*domain.HealthProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &profile, nil
}

func (r *InMemoryProfileRepository) Save(ctx context.Context, profile *domain.HealthProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[profile.UserID] = *profile
	return nil
}

type InMemoryPlanRepository struct {
	store map[string]domain.PlanAdherence

	mu sync.RWMutex
}

func NewInMemoryPlanRepository() *InMemoryPlanRepository {
	return &InMemoryPlanRepository{
		store: make(map[string]domain.PlanAdherence),
	}
}

func (r *InMemoryPlanRepository) GetAdherence(ctx context.Context, userID string, date time.Time) (*domain.PlanAdherence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adherence, ok := r.store[dayKey(userID, date)]
	if !ok {
		return nil, domain.ErrAdherenceNotFound
	}
	return &adherence, nil
}

func (r *InMemoryPlanRepository) SaveAdherence(ctx context.Context, adherence *domain.PlanAdherence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *adherence
	stored.Date = domain.Day(adherence.Date)
	r.store[dayKey(adherence.UserID, adherence.Date)] = stored
	return nil
}

type InMemoryUserRepository struct {
	byID map[string]domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID: make(map[string]domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

type ProfileService struct {
	repo domain.ProfileRepository
}

func NewProfileService(repo domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

type SaveProfileInput struct {
	UserID        string
	Age           int
	Gender        string
	TargetHRV     *float64
	PrimaryGoal   string
	ActivityLevel string
}

func (s *ProfileService) Save(ctx context.Context, input SaveProfileInput) (*domain.HealthProfile, error) {
	profile := &domain.HealthProfile{
		UserID:        input.UserID,
		Age:           input.Age,
		Gender:        strings.ToLower(strings.TrimSpace(input.Gender)),
		TargetHRV:     input.TargetHRV,
		PrimaryGoal:   strings.TrimSpace(input.PrimaryGoal),
		ActivityLevel: strings.TrimSpace(input.ActivityLevel),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.HealthProfile, error) {
	return s.repo.Get(ctx, userID)
}

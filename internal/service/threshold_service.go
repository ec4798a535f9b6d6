package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/models"
	"github.com/campusroll/campusroll-api/internal/repository"
)

// FallbackThreshold is the hard default applied when neither a lecturer
// override nor a school default is configured.
const FallbackThreshold = 65

// ErrInvalidThreshold rejects threshold values outside [50,100]. The range
// is enforced here, at configuration time; computation assumes any resolved
// threshold is already valid.
var ErrInvalidThreshold = errors.New("threshold must be between 50 and 100")

// ThresholdResolver resolves the effective eligibility threshold for a
// course and manages the two configuration levels: per-lecturer override and
// per-school default. There is no per-course level.
type ThresholdResolver interface {
	Resolve(ctx context.Context, course models.Course) (int, error)
	SetLecturerThreshold(ctx context.Context, lecturerID uint, threshold *int) error
	SetSchoolThreshold(ctx context.Context, schoolID uint, threshold *int) error
}

type thresholdResolver struct {
	schools  repository.SchoolRepository
	users    repository.UserRepository
	fallback int
	logger   zerolog.Logger
}

// NewThresholdResolver constructs the threshold resolver. The fallback is
// the deployment-wide default applied when no override is configured; zero
// selects the built-in FallbackThreshold.
func NewThresholdResolver(schools repository.SchoolRepository, users repository.UserRepository, fallback int, logger zerolog.Logger) ThresholdResolver {
	if fallback == 0 {
		fallback = FallbackThreshold
	}
	return &thresholdResolver{
		schools:  schools,
		users:    users,
		fallback: fallback,
		logger:   logger.With().Str("component", "threshold_resolver").Logger(),
	}
}

// Resolve applies the precedence: primary lecturer override, school default,
// built-in fallback. The primary lecturer is the first of the course's
// lecturer association, which repositories load ordered by id.
func (s *thresholdResolver) Resolve(ctx context.Context, course models.Course) (int, error) {
	if len(course.Lecturers) > 0 {
		if override := course.Lecturers[0].EligibilityThreshold; override != nil {
			return *override, nil
		}
	}

	school, err := s.schools.Get(ctx, course.SchoolID)
	if err != nil {
		return 0, fmt.Errorf("load school %d: %w", course.SchoolID, err)
	}
	if school.DefaultThreshold != nil {
		return *school.DefaultThreshold, nil
	}

	return s.fallback, nil
}

func (s *thresholdResolver) SetLecturerThreshold(ctx context.Context, lecturerID uint, threshold *int) error {
	if err := validateThreshold(threshold); err != nil {
		return err
	}
	if err := s.users.SetEligibilityThreshold(ctx, lecturerID, threshold); err != nil {
		return fmt.Errorf("store lecturer threshold: %w", err)
	}

	s.logger.Info().Uint("lecturer_id", lecturerID).Msg("lecturer threshold updated")
	return nil
}

func (s *thresholdResolver) SetSchoolThreshold(ctx context.Context, schoolID uint, threshold *int) error {
	if err := validateThreshold(threshold); err != nil {
		return err
	}
	if err := s.schools.SetDefaultThreshold(ctx, schoolID, threshold); err != nil {
		return fmt.Errorf("store school threshold: %w", err)
	}

	s.logger.Info().Uint("school_id", schoolID).Msg("school threshold updated")
	return nil
}

func validateThreshold(threshold *int) error {
	if threshold == nil {
		return nil
	}
	if *threshold < 50 || *threshold > 100 {
		return ErrInvalidThreshold
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/models"
	"github.com/campusroll/campusroll-api/internal/repository"
)

// ErrNoActivePeriod indicates the school has no open academic year/semester.
// Callers must surface this as a blocking precondition; computation never
// falls back to an all-time window.
var ErrNoActivePeriod = errors.New("no active academic period")

// ErrSchoolNotFound indicates the school row does not exist.
var ErrSchoolNotFound = errors.New("school not found")

// PeriodResolver resolves and manages a school's active academic period.
type PeriodResolver interface {
	Resolve(ctx context.Context, schoolID uint) (models.AcademicPeriod, error)
	StartAcademicYear(ctx context.Context, schoolID uint, label string, semester models.Semester) (models.AcademicPeriod, error)
	ClosePeriod(ctx context.Context, schoolID uint) error
}

type periodResolver struct {
	schools repository.SchoolRepository
	logger  zerolog.Logger
}

// NewPeriodResolver constructs the academic period resolver.
func NewPeriodResolver(schools repository.SchoolRepository, logger zerolog.Logger) PeriodResolver {
	return &periodResolver{
		schools: schools,
		logger:  logger.With().Str("component", "period_resolver").Logger(),
	}
}

func (s *periodResolver) Resolve(ctx context.Context, schoolID uint) (models.AcademicPeriod, error) {
	school, err := s.schools.Get(ctx, schoolID)
	if err != nil {
		return models.AcademicPeriod{}, fmt.Errorf("load school %d: %w", schoolID, err)
	}

	if school.CurrentAcademicYearID == nil || school.CurrentSemester == nil {
		return models.AcademicPeriod{}, ErrNoActivePeriod
	}

	return models.AcademicPeriod{
		AcademicYearID: *school.CurrentAcademicYearID,
		Semester:       *school.CurrentSemester,
	}, nil
}

func (s *periodResolver) StartAcademicYear(ctx context.Context, schoolID uint, label string, semester models.Semester) (models.AcademicPeriod, error) {
	if _, err := s.schools.Get(ctx, schoolID); err != nil {
		return models.AcademicPeriod{}, fmt.Errorf("load school %d: %w", schoolID, err)
	}

	year := models.AcademicYear{SchoolID: schoolID, Label: label}
	if err := s.schools.CreateAcademicYear(ctx, &year); err != nil {
		return models.AcademicPeriod{}, fmt.Errorf("create academic year: %w", err)
	}

	if err := s.schools.SetCurrentPeriod(ctx, schoolID, &year.ID, &semester); err != nil {
		return models.AcademicPeriod{}, fmt.Errorf("activate academic period: %w", err)
	}

	s.logger.Info().
		Uint("school_id", schoolID).
		Uint("academic_year_id", year.ID).
		Str("semester", string(semester)).
		Msg("academic period opened")

	return models.AcademicPeriod{AcademicYearID: year.ID, Semester: semester}, nil
}

func (s *periodResolver) ClosePeriod(ctx context.Context, schoolID uint) error {
	if err := s.schools.SetCurrentPeriod(ctx, schoolID, nil, nil); err != nil {
		return fmt.Errorf("close academic period: %w", err)
	}

	s.logger.Info().Uint("school_id", schoolID).Msg("academic period closed")
	return nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusroll/campusroll-api/internal/models"
)

func thresholdFixture(lecturerOverride, schoolDefault *int) (ThresholdResolver, models.Course) {
	schools := newFakeSchoolRepo(models.School{ID: 1, DefaultThreshold: schoolDefault})
	users := newFakeUserRepo(models.User{ID: 100, Role: models.RoleLecturer, SchoolID: 1, EligibilityThreshold: lecturerOverride})

	course := models.Course{
		ID:       10,
		SchoolID: 1,
		Lecturers: []models.User{
			{ID: 100, Role: models.RoleLecturer, SchoolID: 1, EligibilityThreshold: lecturerOverride},
		},
	}
	return NewThresholdResolver(schools, users, 0, testLogger()), course
}

func TestThresholdResolverPrecedence(t *testing.T) {
	cases := []struct {
		name     string
		override *int
		school   *int
		want     int
	}{
		{"lecturer override wins", intPtr(80), intPtr(70), 80},
		{"school default without override", nil, intPtr(70), 70},
		{"hard fallback", nil, nil, 65},
		{"override without school default", intPtr(90), nil, 90},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver, course := thresholdFixture(tc.override, tc.school)
			threshold, err := resolver.Resolve(context.Background(), course)
			require.NoError(t, err)
			require.Equal(t, tc.want, threshold)
		})
	}
}

func TestThresholdResolverOverrideRemovalReverts(t *testing.T) {
	resolver, course := thresholdFixture(intPtr(80), intPtr(65))

	threshold, err := resolver.Resolve(context.Background(), course)
	require.NoError(t, err)
	require.Equal(t, 80, threshold)

	course.Lecturers[0].EligibilityThreshold = nil
	threshold, err = resolver.Resolve(context.Background(), course)
	require.NoError(t, err)
	require.Equal(t, 65, threshold)
}

func TestThresholdResolverRejectsOutOfRange(t *testing.T) {
	resolver, _ := thresholdFixture(nil, nil)

	require.ErrorIs(t, resolver.SetLecturerThreshold(context.Background(), 100, intPtr(49)), ErrInvalidThreshold)
	require.ErrorIs(t, resolver.SetLecturerThreshold(context.Background(), 100, intPtr(101)), ErrInvalidThreshold)
	require.ErrorIs(t, resolver.SetSchoolThreshold(context.Background(), 1, intPtr(0)), ErrInvalidThreshold)

	require.NoError(t, resolver.SetLecturerThreshold(context.Background(), 100, intPtr(50)))
	require.NoError(t, resolver.SetSchoolThreshold(context.Background(), 1, intPtr(100)))
	require.NoError(t, resolver.SetLecturerThreshold(context.Background(), 100, nil), "nil clears the override")
}

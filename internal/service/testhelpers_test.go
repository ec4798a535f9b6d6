package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type fakeSchoolRepo struct {
	schools map[uint]*models.School
	nextID  uint
}

func newFakeSchoolRepo(schools ...models.School) *fakeSchoolRepo {
	repo := &fakeSchoolRepo{schools: make(map[uint]*models.School), nextID: 1}
	for i := range schools {
		school := schools[i]
		repo.schools[school.ID] = &school
	}
	return repo
}

func (f *fakeSchoolRepo) Get(ctx context.Context, id uint) (models.School, error) {
	if school, ok := f.schools[id]; ok {
		return *school, nil
	}
	return models.School{}, gorm.ErrRecordNotFound
}

func (f *fakeSchoolRepo) CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	year.ID = f.nextID
	f.nextID++
	return nil
}

func (f *fakeSchoolRepo) SetCurrentPeriod(ctx context.Context, schoolID uint, yearID *uint, semester *models.Semester) error {
	if school, ok := f.schools[schoolID]; ok {
		school.CurrentAcademicYearID = yearID
		school.CurrentSemester = semester
	}
	return nil
}

func (f *fakeSchoolRepo) SetDefaultThreshold(ctx context.Context, schoolID uint, threshold *int) error {
	if school, ok := f.schools[schoolID]; ok {
		school.DefaultThreshold = threshold
	}
	return nil
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]*models.User)}
	for i := range users {
		user := users[i]
		repo.users[user.ID] = &user
	}
	return repo
}

func (f *fakeUserRepo) Get(ctx context.Context, id uint) (models.User, error) {
	if user, ok := f.users[id]; ok {
		return *user, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) SetEligibilityThreshold(ctx context.Context, userID uint, threshold *int) error {
	if user, ok := f.users[userID]; ok {
		user.EligibilityThreshold = threshold
	}
	return nil
}

type fakeCourseRepo struct {
	courses map[uint]models.Course
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: make(map[uint]models.Course)}
	for _, course := range courses {
		repo.courses[course.ID] = course
	}
	return repo
}

func (f *fakeCourseRepo) Get(ctx context.Context, id uint) (models.Course, error) {
	if course, ok := f.courses[id]; ok {
		return course, nil
	}
	return models.Course{}, gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) list(filter func(models.Course) bool) []models.Course {
	var courses []models.Course
	for _, course := range f.courses {
		if filter(course) {
			courses = append(courses, course)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses
}

func (f *fakeCourseRepo) ListBySchool(ctx context.Context, schoolID uint) ([]models.Course, error) {
	return f.list(func(c models.Course) bool { return c.SchoolID == schoolID }), nil
}

func (f *fakeCourseRepo) ListByLecturer(ctx context.Context, lecturerID uint) ([]models.Course, error) {
	return f.list(func(c models.Course) bool {
		for _, lecturer := range c.Lecturers {
			if lecturer.ID == lecturerID {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeCourseRepo) ListByIDs(ctx context.Context, ids []uint) ([]models.Course, error) {
	wanted := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return f.list(func(c models.Course) bool {
		_, ok := wanted[c.ID]
		return ok
	}), nil
}

type fakeSessionRepo struct {
	sessions map[uint]*models.Session
	inserted []models.AttendanceRecord
	nextID   uint
}

func newFakeSessionRepo(sessions ...models.Session) *fakeSessionRepo {
	repo := &fakeSessionRepo{sessions: make(map[uint]*models.Session), nextID: 1}
	for i := range sessions {
		session := sessions[i]
		repo.sessions[session.ID] = &session
		if session.ID >= repo.nextID {
			repo.nextID = session.ID + 1
		}
	}
	return repo
}

func (f *fakeSessionRepo) Get(ctx context.Context, id uint) (models.Session, error) {
	if session, ok := f.sessions[id]; ok {
		return *session, nil
	}
	return models.Session{}, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepo) listByStatus(courseID uint, period models.AcademicPeriod, status models.SessionStatus) []models.Session {
	var sessions []models.Session
	for _, session := range f.sessions {
		if session.CourseID == courseID &&
			session.AcademicYearID == period.AcademicYearID &&
			session.Semester == period.Semester &&
			session.Status == status {
			sessions = append(sessions, *session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.Before(sessions[j].CreatedAt) })
	return sessions
}

func (f *fakeSessionRepo) ListEnded(ctx context.Context, courseID uint, period models.AcademicPeriod) ([]models.Session, error) {
	return f.listByStatus(courseID, period, models.SessionEnded), nil
}

func (f *fakeSessionRepo) ListActive(ctx context.Context, courseID uint, period models.AcademicPeriod) ([]models.Session, error) {
	return f.listByStatus(courseID, period, models.SessionActive), nil
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	session.ID = f.nextID
	f.nextID++
	stored := *session
	f.sessions[stored.ID] = &stored
	return nil
}

func (f *fakeSessionRepo) End(ctx context.Context, sessionID uint, endedAt time.Time, absences []models.AttendanceRecord) (bool, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.Status != models.SessionActive {
		return false, nil
	}
	session.Status = models.SessionEnded
	session.EndedAt = &endedAt
	f.inserted = append(f.inserted, absences...)
	return true, nil
}

type fakeEnrollmentRepo struct {
	rows   []*models.Enrollment
	nextID uint
}

func newFakeEnrollmentRepo(rows ...models.Enrollment) *fakeEnrollmentRepo {
	repo := &fakeEnrollmentRepo{nextID: 1}
	for i := range rows {
		row := rows[i]
		if row.ID == 0 {
			row.ID = repo.nextID
		}
		if row.ID >= repo.nextID {
			repo.nextID = row.ID + 1
		}
		repo.rows = append(repo.rows, &row)
	}
	return repo
}

func (f *fakeEnrollmentRepo) Find(ctx context.Context, studentID, courseID uint, period models.AcademicPeriod) (models.Enrollment, error) {
	for _, row := range f.rows {
		if row.StudentID == studentID && row.CourseID == courseID &&
			row.AcademicYearID == period.AcademicYearID && row.Semester == period.Semester {
			return *row, nil
		}
	}
	return models.Enrollment{}, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) ListActiveByCourse(ctx context.Context, courseID uint, period models.AcademicPeriod) ([]models.Enrollment, error) {
	var rows []models.Enrollment
	for _, row := range f.rows {
		if row.CourseID == courseID && row.AcademicYearID == period.AcademicYearID &&
			row.Semester == period.Semester && row.Status == models.EnrollmentActive {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (f *fakeEnrollmentRepo) ListActiveByStudent(ctx context.Context, studentID uint, period models.AcademicPeriod) ([]models.Enrollment, error) {
	var rows []models.Enrollment
	for _, row := range f.rows {
		if row.StudentID == studentID && row.AcademicYearID == period.AcademicYearID &&
			row.Semester == period.Semester && row.Status == models.EnrollmentActive {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = f.nextID
	f.nextID++
	stored := *enrollment
	f.rows = append(f.rows, &stored)
	return nil
}

func (f *fakeEnrollmentRepo) SetStatus(ctx context.Context, id uint, status models.EnrollmentStatus) error {
	for _, row := range f.rows {
		if row.ID == id {
			row.Status = status
		}
	}
	return nil
}

type fakeAttendanceRepo struct {
	records []models.AttendanceRecord
	nextID  uint
}

func newFakeAttendanceRepo(records ...models.AttendanceRecord) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: records, nextID: uint(len(records)) + 1}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	for _, existing := range f.records {
		if existing.StudentID == record.StudentID && existing.SessionID == record.SessionID {
			return gorm.ErrDuplicatedKey
		}
	}
	record.ID = f.nextID
	f.nextID++
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAttendanceRepo) PresentByStudent(ctx context.Context, courseID uint, period models.AcademicPeriod) (map[uint][]uint, error) {
	present := make(map[uint][]uint)
	for _, record := range f.records {
		if record.CourseID == courseID && record.AcademicYearID == period.AcademicYearID &&
			record.Semester == period.Semester && record.Status == models.AttendancePresent {
			present[record.StudentID] = append(present[record.StudentID], record.SessionID)
		}
	}
	return present, nil
}

func (f *fakeAttendanceRepo) PresentSessionIDs(ctx context.Context, studentID, courseID uint, period models.AcademicPeriod) ([]uint, error) {
	var ids []uint
	for _, record := range f.records {
		if record.StudentID == studentID && record.CourseID == courseID &&
			record.AcademicYearID == period.AcademicYearID && record.Semester == period.Semester &&
			record.Status == models.AttendancePresent {
			ids = append(ids, record.SessionID)
		}
	}
	return ids, nil
}

func (f *fakeAttendanceRepo) ListBySession(ctx context.Context, sessionID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	for _, record := range f.records {
		if record.SessionID == sessionID {
			records = append(records, record)
		}
	}
	return records, nil
}

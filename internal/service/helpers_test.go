package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/models"
	"github.com/noah-isme/gradex-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type memoryStudentRepo struct {
	students map[uint]models.Student
	nextID   uint
}

func newMemoryStudentRepo() *memoryStudentRepo {
	return &memoryStudentRepo{students: make(map[uint]models.Student), nextID: 1}
}

func (m *memoryStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) GetByUserID(_ context.Context, userID string) (models.Student, error) {
	for _, student := range m.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (m *memoryStudentRepo) Create(_ context.Context, student *models.Student) error {
	student.ID = m.nextID
	m.students[m.nextID] = *student
	m.nextID++
	return nil
}

type memoryInstructorRepo struct {
	instructors map[uint]models.Instructor
	nextID      uint
}

func newMemoryInstructorRepo() *memoryInstructorRepo {
	return &memoryInstructorRepo{instructors: make(map[uint]models.Instructor), nextID: 1}
}

func (m *memoryInstructorRepo) GetByID(_ context.Context, id uint) (models.Instructor, error) {
	instructor, ok := m.instructors[id]
	if !ok {
		return models.Instructor{}, gorm.ErrRecordNotFound
	}
	return instructor, nil
}

func (m *memoryInstructorRepo) GetByUserID(_ context.Context, userID string) (models.Instructor, error) {
	for _, instructor := range m.instructors {
		if instructor.UserID == userID {
			return instructor, nil
		}
	}
	return models.Instructor{}, gorm.ErrRecordNotFound
}

func (m *memoryInstructorRepo) Create(_ context.Context, instructor *models.Instructor) error {
	instructor.ID = m.nextID
	m.instructors[m.nextID] = *instructor
	m.nextID++
	return nil
}

type memoryCourseRepo struct {
	courses map[uint]models.Course
	nextID  uint
}

func newMemoryCourseRepo() *memoryCourseRepo {
	return &memoryCourseRepo{courses: make(map[uint]models.Course), nextID: 1}
}

func (m *memoryCourseRepo) GetByID(_ context.Context, id uint) (models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (m *memoryCourseRepo) ListByInstructor(_ context.Context, instructorID uint) ([]models.Course, error) {
	results := make([]models.Course, 0)
	for _, course := range m.courses {
		if course.InstructorID == instructorID {
			results = append(results, course)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = m.nextID
	m.courses[m.nextID] = *course
	m.nextID++
	return nil
}

type memoryExamRepo struct {
	exams  map[uint]models.Exam
	nextID uint
}

func newMemoryExamRepo() *memoryExamRepo {
	return &memoryExamRepo{exams: make(map[uint]models.Exam), nextID: 1}
}

func (m *memoryExamRepo) GetByID(_ context.Context, id uint) (models.Exam, error) {
	exam, ok := m.exams[id]
	if !ok {
		return models.Exam{}, gorm.ErrRecordNotFound
	}
	return exam, nil
}

func (m *memoryExamRepo) ListByInstructor(_ context.Context, instructorID uint) ([]models.Exam, error) {
	results := make([]models.Exam, 0)
	for _, exam := range m.exams {
		if exam.InstructorID == instructorID {
			results = append(results, exam)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.After(results[j].CreatedAt) })
	return results, nil
}

func (m *memoryExamRepo) ListRecentByInstructor(ctx context.Context, instructorID uint, limit int) ([]models.Exam, error) {
	results, err := m.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *memoryExamRepo) ListActive(_ context.Context) ([]models.Exam, error) {
	results := make([]models.Exam, 0)
	for _, exam := range m.exams {
		if exam.IsActive {
			results = append(results, exam)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryExamRepo) CountByInstructor(ctx context.Context, instructorID uint) (int64, error) {
	results, err := m.ListByInstructor(ctx, instructorID)
	if err != nil {
		return 0, err
	}
	return int64(len(results)), nil
}

func (m *memoryExamRepo) Create(_ context.Context, exam *models.Exam) error {
	exam.ID = m.nextID
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = time.Now()
	}
	exam.UpdatedAt = time.Now()
	m.exams[m.nextID] = *exam
	m.nextID++
	return nil
}

func (m *memoryExamRepo) Update(_ context.Context, exam *models.Exam) error {
	if _, ok := m.exams[exam.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	exam.UpdatedAt = time.Now()
	m.exams[exam.ID] = *exam
	return nil
}

func (m *memoryExamRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.exams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.exams, id)
	return nil
}

// memorySubmissionRepo emulates the composite unique index on
// (student_id, exam_id) and the conflict-clause upsert, and hydrates the
// Student and Exam associations the way the gorm preloads do.
type memorySubmissionRepo struct {
	mu          sync.Mutex
	submissions map[uint]models.Submission
	nextID      uint
	students    *memoryStudentRepo
	exams       *memoryExamRepo
}

func newMemorySubmissionRepo(students *memoryStudentRepo, exams *memoryExamRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{
		submissions: make(map[uint]models.Submission),
		nextID:      1,
		students:    students,
		exams:       exams,
	}
}

func (m *memorySubmissionRepo) hydrate(submission models.Submission) models.Submission {
	if m.students != nil {
		if student, ok := m.students.students[submission.StudentID]; ok {
			submission.Student = student
		}
	}
	if m.exams != nil {
		if exam, ok := m.exams.exams[submission.ExamID]; ok {
			submission.Exam = exam
		}
	}
	return submission
}

func (m *memorySubmissionRepo) matches(submission models.Submission, filter repository.SubmissionFilter) bool {
	if filter.ExamID != nil && submission.ExamID != *filter.ExamID {
		return false
	}
	if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
		return false
	}
	if filter.Status != nil && submission.Status != *filter.Status {
		return false
	}
	if filter.InstructorID != nil {
		exam, ok := m.exams.exams[submission.ExamID]
		if !ok || exam.InstructorID != *filter.InstructorID {
			return false
		}
	}
	return true
}

func (m *memorySubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return m.hydrate(submission), nil
}

func (m *memorySubmissionRepo) GetByStudentExam(_ context.Context, studentID, examID uint) (models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, submission := range m.submissions {
		if submission.StudentID == studentID && submission.ExamID == examID {
			return m.hydrate(submission), nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if m.matches(submission, filter) {
			results = append(results, m.hydrate(submission))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) Count(ctx context.Context, filter repository.SubmissionFilter) (int64, error) {
	results, err := m.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(results)), nil
}

func (m *memorySubmissionRepo) GradedMarks(ctx context.Context, filter repository.SubmissionFilter) ([]float64, error) {
	graded := models.SubmissionStatusGraded
	filter.Status = &graded
	results, err := m.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	marks := make([]float64, 0, len(results))
	for _, submission := range results {
		if submission.Marks != nil {
			marks = append(marks, *submission.Marks)
		}
	}
	return marks, nil
}

func (m *memorySubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.submissions {
		if existing.StudentID == submission.StudentID && existing.ExamID == submission.ExamID {
			return gorm.ErrDuplicatedKey
		}
	}
	submission.ID = m.nextID
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = time.Now()
	m.submissions[m.nextID] = *submission
	m.nextID++
	return nil
}

func (m *memorySubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	submission.UpdatedAt = time.Now()
	stored := *submission
	stored.Student = models.Student{}
	stored.Exam = models.Exam{}
	m.submissions[submission.ID] = stored
	return nil
}

func (m *memorySubmissionRepo) UpsertByStudentExam(_ context.Context, submission *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.submissions {
		if existing.StudentID == submission.StudentID && existing.ExamID == submission.ExamID {
			existing.FileLink = submission.FileLink
			existing.Status = models.SubmissionStatusPending
			existing.Marks = nil
			existing.MatchPercentage = nil
			existing.Feedback = nil
			existing.GradedAt = nil
			existing.UpdatedAt = time.Now()
			m.submissions[id] = existing
			submission.ID = id
			return nil
		}
	}
	submission.ID = m.nextID
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = time.Now()
	m.submissions[m.nextID] = *submission
	m.nextID++
	return nil
}

type memoryGrievanceRepo struct {
	grievances  map[uint]models.Grievance
	nextID      uint
	exams       *memoryExamRepo
	students    *memoryStudentRepo
	submissions *memorySubmissionRepo
}

func newMemoryGrievanceRepo(students *memoryStudentRepo, exams *memoryExamRepo, submissions *memorySubmissionRepo) *memoryGrievanceRepo {
	return &memoryGrievanceRepo{
		grievances:  make(map[uint]models.Grievance),
		nextID:      1,
		exams:       exams,
		students:    students,
		submissions: submissions,
	}
}

func (m *memoryGrievanceRepo) hydrate(grievance models.Grievance) models.Grievance {
	if m.students != nil {
		if student, ok := m.students.students[grievance.StudentID]; ok {
			grievance.Student = student
		}
	}
	if m.exams != nil {
		if exam, ok := m.exams.exams[grievance.ExamID]; ok {
			grievance.Exam = exam
		}
	}
	if m.submissions != nil {
		if submission, ok := m.submissions.submissions[grievance.SubmissionID]; ok {
			grievance.Submission = submission
		}
	}
	return grievance
}

func (m *memoryGrievanceRepo) GetByID(_ context.Context, id uint) (models.Grievance, error) {
	grievance, ok := m.grievances[id]
	if !ok {
		return models.Grievance{}, gorm.ErrRecordNotFound
	}
	return m.hydrate(grievance), nil
}

func (m *memoryGrievanceRepo) GetBySubmission(_ context.Context, submissionID uint) (models.Grievance, error) {
	for _, grievance := range m.grievances {
		if grievance.SubmissionID == submissionID {
			return m.hydrate(grievance), nil
		}
	}
	return models.Grievance{}, gorm.ErrRecordNotFound
}

func (m *memoryGrievanceRepo) ListByInstructor(_ context.Context, instructorID uint) ([]models.Grievance, error) {
	results := make([]models.Grievance, 0)
	for _, grievance := range m.grievances {
		exam, ok := m.exams.exams[grievance.ExamID]
		if ok && exam.InstructorID == instructorID {
			results = append(results, m.hydrate(grievance))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryGrievanceRepo) ListByStudent(_ context.Context, studentID uint) ([]models.Grievance, error) {
	results := make([]models.Grievance, 0)
	for _, grievance := range m.grievances {
		if grievance.StudentID == studentID {
			results = append(results, m.hydrate(grievance))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryGrievanceRepo) Create(_ context.Context, grievance *models.Grievance) error {
	for _, existing := range m.grievances {
		if existing.SubmissionID == grievance.SubmissionID {
			return gorm.ErrDuplicatedKey
		}
	}
	grievance.ID = m.nextID
	grievance.CreatedAt = time.Now()
	grievance.UpdatedAt = time.Now()
	stored := *grievance
	stored.Student = models.Student{}
	stored.Exam = models.Exam{}
	stored.Submission = models.Submission{}
	m.grievances[m.nextID] = stored
	m.nextID++
	return nil
}

func (m *memoryGrievanceRepo) Update(_ context.Context, grievance *models.Grievance) error {
	if _, ok := m.grievances[grievance.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	grievance.UpdatedAt = time.Now()
	stored := *grievance
	stored.Student = models.Student{}
	stored.Exam = models.Exam{}
	stored.Submission = models.Submission{}
	m.grievances[grievance.ID] = stored
	return nil
}

func submissionFilterForExam(examID uint) repository.SubmissionFilter {
	return repository.SubmissionFilter{ExamID: &examID}
}

type stubBlobStore struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (s *stubBlobStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	return "https://cdn.example.com/" + key, nil
}

type recordingEventPublisher struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingEventPublisher) Publish(_ context.Context, eventType string, _ map[string]interface{}) {
	r.mu.Lock()
	r.events = append(r.events, eventType)
	r.mu.Unlock()
}

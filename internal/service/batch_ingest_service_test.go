package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

func pdfBytes(marker string) []byte {
	return []byte("%PDF-1.4\n" + marker + "\n%%EOF")
}

type batchFixture struct {
	instructors *memoryInstructorRepo
	students    *memoryStudentRepo
	exams       *memoryExamRepo
	submissions *memorySubmissionRepo
	blobs       *stubBlobStore
	events      *recordingEventPublisher
	service     BatchIngestService
	exam        models.Exam
	teacher     models.Instructor
}

func newBatchFixture(t *testing.T) *batchFixture {
	t.Helper()

	instructors := newMemoryInstructorRepo()
	students := newMemoryStudentRepo()
	exams := newMemoryExamRepo()
	submissions := newMemorySubmissionRepo(students, exams)
	blobs := &stubBlobStore{}
	events := &recordingEventPublisher{}

	teacher := models.Instructor{UserID: "teach-1", Name: "Prof. Ada", Email: "ada@example.com"}
	require.NoError(t, instructors.Create(context.Background(), &teacher))

	exam := models.Exam{InstructorID: teacher.ID, Title: "Midterm", Type: models.ExamTypeMixed, IsActive: true}
	require.NoError(t, exams.Create(context.Background(), &exam))

	svc := NewBatchIngestService(instructors, students, exams, submissions, blobs, events, 10, testLogger())

	return &batchFixture{
		instructors: instructors,
		students:    students,
		exams:       exams,
		submissions: submissions,
		blobs:       blobs,
		events:      events,
		service:     svc,
		exam:        exam,
		teacher:     teacher,
	}
}

func (f *batchFixture) addStudent(t *testing.T, userID string) models.Student {
	t.Helper()
	student := models.Student{UserID: userID, Name: "Student " + userID, Email: userID + "@example.com"}
	require.NoError(t, f.students.Create(context.Background(), &student))
	return student
}

func pdfFile(name string) BatchFile {
	content := pdfBytes(name)
	return BatchFile{Name: name, Content: content, ContentType: "application/pdf", Size: int64(len(content))}
}

func TestBatchIngestPartialFailureIsolation(t *testing.T) {
	f := newBatchFixture(t)
	for i := 1; i <= 4; i++ {
		f.addStudent(t, fmt.Sprintf("stu-%d", i))
	}

	files := []BatchFile{
		pdfFile("stu-1.pdf"),
		pdfFile("stu-2.pdf"),
		pdfFile("unknown-student.pdf"),
		pdfFile("stu-3.pdf"),
		pdfFile("stu-4.pdf"),
	}

	actor := Actor{UserID: f.teacher.UserID, Role: RoleTeacher}
	result, err := f.service.Ingest(context.Background(), actor, f.exam.ID, files)
	require.NoError(t, err)

	require.Equal(t, 4, result.Uploaded)
	require.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 4)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "unknown-student.pdf", result.Errors[0].Filename)
	require.Equal(t, "student unknown-student not found", result.Errors[0].Error)

	count, err := f.submissions.Count(context.Background(), submissionFilterForExam(f.exam.ID))
	require.NoError(t, err)
	require.EqualValues(t, 4, count)

	require.Contains(t, f.events.events, EventBatchCompleted)
}

func TestBatchIngestReUploadResetsGrade(t *testing.T) {
	f := newBatchFixture(t)
	student := f.addStudent(t, "stu-1")

	actor := Actor{UserID: f.teacher.UserID, Role: RoleTeacher}
	first, err := f.service.Ingest(context.Background(), actor, f.exam.ID, []BatchFile{pdfFile("stu-1.pdf")})
	require.NoError(t, err)
	require.Equal(t, 1, first.Uploaded)

	// Grade the submission, then re-upload the same student's sheet.
	stored, err := f.submissions.GetByStudentExam(context.Background(), student.ID, f.exam.ID)
	require.NoError(t, err)

	marks := 88.0
	stored.Marks = &marks
	stored.Status = models.SubmissionStatusGraded
	require.NoError(t, f.submissions.Update(context.Background(), &stored))

	second, err := f.service.Ingest(context.Background(), actor, f.exam.ID, []BatchFile{pdfFile("stu-1.pdf")})
	require.NoError(t, err)
	require.Equal(t, 1, second.Uploaded)

	refreshed, err := f.submissions.GetByStudentExam(context.Background(), student.ID, f.exam.ID)
	require.NoError(t, err)
	require.Equal(t, stored.ID, refreshed.ID, "re-upload must overwrite, not duplicate")
	require.Equal(t, models.SubmissionStatusPending, refreshed.Status)
	require.Nil(t, refreshed.Marks)
	require.Nil(t, refreshed.Feedback)
	require.Nil(t, refreshed.GradedAt)

	count, err := f.submissions.Count(context.Background(), submissionFilterForExam(f.exam.ID))
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestBatchIngestRejectsNonPDF(t *testing.T) {
	f := newBatchFixture(t)
	f.addStudent(t, "stu-1")

	files := []BatchFile{
		{Name: "stu-1.pdf", Content: []byte("plain text"), ContentType: "text/plain", Size: 10},
	}

	actor := Actor{UserID: f.teacher.UserID, Role: RoleTeacher}
	result, err := f.service.Ingest(context.Background(), actor, f.exam.ID, files)
	require.NoError(t, err)
	require.Equal(t, 0, result.Uploaded)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, "only PDF files are allowed", result.Errors[0].Error)
}

func TestBatchIngestRejectsMasqueradingContent(t *testing.T) {
	f := newBatchFixture(t)
	f.addStudent(t, "stu-1")

	files := []BatchFile{
		{Name: "stu-1.pdf", Content: []byte("not actually a pdf"), ContentType: "application/pdf", Size: 18},
	}

	actor := Actor{UserID: f.teacher.UserID, Role: RoleTeacher}
	result, err := f.service.Ingest(context.Background(), actor, f.exam.ID, files)
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, "file content is not a valid PDF", result.Errors[0].Error)
}

func TestBatchIngestRejectsOversizedFile(t *testing.T) {
	f := newBatchFixture(t)
	f.addStudent(t, "stu-1")

	huge := BatchFile{
		Name:        "stu-1.pdf",
		Content:     pdfBytes("big"),
		ContentType: "application/pdf",
		Size:        11 * 1024 * 1024,
	}

	actor := Actor{UserID: f.teacher.UserID, Role: RoleTeacher}
	result, err := f.service.Ingest(context.Background(), actor, f.exam.ID, []BatchFile{huge})
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, "file size exceeds maximum allowed size (10MB)", result.Errors[0].Error)
}

func TestBatchIngestBlobKeyLayout(t *testing.T) {
	f := newBatchFixture(t)
	f.addStudent(t, "abc123")

	actor := Actor{UserID: f.teacher.UserID, Role: RoleTeacher}
	result, err := f.service.Ingest(context.Background(), actor, f.exam.ID, []BatchFile{pdfFile("ABC123.PDF"), pdfFile("abc123.pdf")})
	require.NoError(t, err)

	// Uppercase identity does not match the stored student; only the
	// exact filename stem resolves.
	require.Equal(t, 1, result.Uploaded)
	require.Equal(t, 1, result.Failed)
	expectedKey := fmt.Sprintf("student-answers/%d/abc123/answer-sheet.pdf", f.exam.ID)
	require.Contains(t, f.blobs.keys, expectedKey)
	require.True(t, bytes.HasPrefix([]byte(result.Results[0].FileLink), []byte("https://cdn.example.com/")))
}

func TestBatchIngestEmptyBatch(t *testing.T) {
	f := newBatchFixture(t)

	actor := Actor{UserID: f.teacher.UserID, Role: RoleTeacher}
	_, err := f.service.Ingest(context.Background(), actor, f.exam.ID, nil)
	require.ErrorIs(t, err, ErrEmptyBatch)
}

func TestBatchIngestForeignExamForbidden(t *testing.T) {
	f := newBatchFixture(t)
	other := models.Instructor{UserID: "teach-2", Name: "Prof. Bob", Email: "bob@example.com"}
	require.NoError(t, f.instructors.Create(context.Background(), &other))

	actor := Actor{UserID: other.UserID, Role: RoleTeacher}
	_, err := f.service.Ingest(context.Background(), actor, f.exam.ID, []BatchFile{pdfFile("stu-1.pdf")})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestBatchIngestUnknownExam(t *testing.T) {
	f := newBatchFixture(t)

	actor := Actor{UserID: f.teacher.UserID, Role: RoleTeacher}
	_, err := f.service.Ingest(context.Background(), actor, 999, []BatchFile{pdfFile("stu-1.pdf")})
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestExtractStudentUserID(t *testing.T) {
	cases := map[string]string{
		"abc123.pdf":   "abc123",
		"ABC123.PDF":   "ABC123",
		"abc123.Pdf":   "abc123",
		" abc123.pdf ": "abc123",
		"abc123":       "abc123",
		"abc.123.pdf":  "abc.123",
		".pdf":         "",
		"":             "",
	}

	for input, expected := range cases {
		require.Equal(t, expected, extractStudentUserID(input), "input %q", input)
	}
}

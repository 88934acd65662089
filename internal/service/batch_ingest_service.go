package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/models"
	"github.com/noah-isme/gradex-go-api/internal/observability"
	"github.com/noah-isme/gradex-go-api/internal/repository"
)

const (
	acceptedAnswerSheetType = "application/pdf"
	defaultMaxFileBytes     = 10 * 1024 * 1024
	defaultBatchWorkers     = 4
)

// BatchFile is one uploaded answer sheet within a bulk ingest call.
type BatchFile struct {
	Name        string
	Content     []byte
	ContentType string
	Size        int64
}

// BatchIngestService reconciles a set of uploaded answer-sheet files
// against student identities and submission records. Individual file
// failures are reported per file and never abort the batch.
type BatchIngestService interface {
	Ingest(ctx context.Context, actor Actor, examID uint, files []BatchFile) (dto.BatchIngestResponse, error)
}

type batchIngestService struct {
	instructors  repository.InstructorRepository
	students     repository.StudentRepository
	exams        repository.ExamRepository
	submissions  repository.SubmissionRepository
	blobs        BlobStore
	events       EventPublisher
	logger       zerolog.Logger
	tracer       trace.Tracer
	maxFileBytes int64
	workers      int
}

// NewBatchIngestService constructs the batch ingestion reconciler.
func NewBatchIngestService(
	instructorRepo repository.InstructorRepository,
	studentRepo repository.StudentRepository,
	examRepo repository.ExamRepository,
	submissionRepo repository.SubmissionRepository,
	blobs BlobStore,
	events EventPublisher,
	maxFileSizeMB int,
	logger zerolog.Logger,
) BatchIngestService {
	maxBytes := int64(maxFileSizeMB) * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = defaultMaxFileBytes
	}

	return &batchIngestService{
		instructors:  instructorRepo,
		students:     studentRepo,
		exams:        examRepo,
		submissions:  submissionRepo,
		blobs:        blobs,
		events:       events,
		logger:       logger.With().Str("component", "batch_ingest_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/gradex-go-api/internal/service/batch_ingest"),
		maxFileBytes: maxBytes,
		workers:      defaultBatchWorkers,
	}
}

// fileOutcome holds the result slot for one input index. Exactly one of
// the two fields is set once the file has been processed.
type fileOutcome struct {
	result  *dto.BatchFileResult
	failure *dto.BatchFileError
}

// Ingest validates the batch-level preconditions, then runs the per-file
// pipeline (validate, extract identity, resolve student, upload, upsert)
// across a bounded worker pool. Files share no mutable state: each worker
// writes only its own result slot, and write serialization for the same
// (student, exam) key is delegated to the repository's conflict clause.
func (s *batchIngestService) Ingest(ctx context.Context, actor Actor, examID uint, files []BatchFile) (dto.BatchIngestResponse, error) {
	ctx, span := s.tracer.Start(ctx, "batch.ingest", trace.WithAttributes(
		attribute.Int64("batch.exam_id", int64(examID)),
		attribute.Int("batch.file_count", len(files)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.BatchLatency().Observe(time.Since(start).Seconds())
	}()

	if examID == 0 {
		span.SetStatus(codes.Error, "missing exam id")
		return dto.BatchIngestResponse{}, ErrExamNotFound
	}

	if len(files) == 0 {
		span.SetStatus(codes.Error, "empty batch")
		return dto.BatchIngestResponse{}, ErrEmptyBatch
	}

	instructor, err := s.instructors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "instructor not found")
			return dto.BatchIngestResponse{}, ErrInstructorNotFound
		}
		span.RecordError(err)
		return dto.BatchIngestResponse{}, err
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "exam not found")
			return dto.BatchIngestResponse{}, ErrExamNotFound
		}
		span.RecordError(err)
		return dto.BatchIngestResponse{}, err
	}

	if exam.InstructorID != instructor.ID {
		span.SetStatus(codes.Error, "exam not owned by caller")
		return dto.BatchIngestResponse{}, ErrForbidden
	}

	outcomes := make([]fileOutcome, len(files))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	for i := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(index int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[index] = s.processFile(ctx, exam, files[index])
		}(i)
	}
	wg.Wait()

	response := dto.BatchIngestResponse{
		Results: make([]dto.BatchFileResult, 0, len(files)),
		Errors:  make([]dto.BatchFileError, 0),
	}
	for _, outcome := range outcomes {
		if outcome.result != nil {
			response.Results = append(response.Results, *outcome.result)
			continue
		}
		response.Errors = append(response.Errors, *outcome.failure)
	}
	response.Uploaded = len(response.Results)
	response.Failed = len(response.Errors)

	observability.BatchFiles().WithLabelValues("uploaded").Add(float64(response.Uploaded))
	observability.BatchFiles().WithLabelValues("failed").Add(float64(response.Failed))

	if s.events != nil {
		s.events.Publish(ctx, EventBatchCompleted, map[string]interface{}{
			"exam_id":  exam.ID,
			"uploaded": response.Uploaded,
			"failed":   response.Failed,
		})
	}

	s.logger.Info().
		Uint("exam_id", exam.ID).
		Int("uploaded", response.Uploaded).
		Int("failed", response.Failed).
		Msg("batch ingest completed")

	span.SetAttributes(
		attribute.Int("batch.uploaded", response.Uploaded),
		attribute.Int("batch.failed", response.Failed),
	)

	return response, nil
}

// processFile runs the full per-file pipeline. The submission upsert only
// happens after the storage write succeeded, so readers never observe a
// submission pointing at a half-uploaded file.
func (s *batchIngestService) processFile(ctx context.Context, exam models.Exam, file BatchFile) fileOutcome {
	fail := func(message string) fileOutcome {
		return fileOutcome{failure: &dto.BatchFileError{Filename: file.Name, Error: message}}
	}

	if file.ContentType != acceptedAnswerSheetType {
		return fail("only PDF files are allowed")
	}

	size := file.Size
	if size == 0 {
		size = int64(len(file.Content))
	}
	if size > s.maxFileBytes {
		return fail("file size exceeds maximum allowed size (10MB)")
	}

	if detected := mimetype.Detect(file.Content); !detected.Is(acceptedAnswerSheetType) {
		return fail("file content is not a valid PDF")
	}

	studentUserID := extractStudentUserID(file.Name)
	if studentUserID == "" {
		return fail("could not extract student id from filename")
	}

	student, err := s.students.GetByUserID(ctx, studentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(fmt.Sprintf("student %s not found", studentUserID))
		}
		s.logger.Error().Err(err).Str("filename", file.Name).Msg("student lookup failed")
		return fail("student lookup failed")
	}

	fileLink, err := s.blobs.Put(ctx, StudentAnswerKey(exam.ID, studentUserID), file.Content, acceptedAnswerSheetType)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", file.Name).Msg("answer sheet upload failed")
		return fail(ErrStorageFailure.Error())
	}

	submission := models.Submission{
		StudentID: student.ID,
		ExamID:    exam.ID,
		FileLink:  fileLink,
		Status:    models.SubmissionStatusPending,
	}
	if err := s.submissions.UpsertByStudentExam(ctx, &submission); err != nil {
		s.logger.Error().Err(err).Str("filename", file.Name).Msg("submission upsert failed")
		return fail("failed to record submission")
	}

	return fileOutcome{result: &dto.BatchFileResult{
		StudentUserID: studentUserID,
		Filename:      file.Name,
		FileLink:      fileLink,
	}}
}

// extractStudentUserID derives the external student identity from an
// uploaded filename by stripping a trailing .pdf extension, matched
// case-insensitively.
func extractStudentUserID(filename string) string {
	name := strings.TrimSpace(filename)
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".pdf") {
		name = strings.TrimSuffix(name, ext)
	}

	return name
}

package service

import "errors"

// Sentinel errors returned by the lifecycle services. Handlers map each
// one to a stable HTTP status, so callers branch on errors.Is rather than
// message text.
var (
	// ErrUnauthorized indicates a missing or unusable caller identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller is authenticated but does not own
	// the target resource or holds the wrong role.
	ErrForbidden = errors.New("access denied")

	// ErrExamNotFound indicates the exam does not exist.
	ErrExamNotFound = errors.New("exam not found")
	// ErrSubmissionNotFound indicates the submission does not exist or
	// does not belong to the requester.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrGrievanceNotFound indicates the grievance does not exist.
	ErrGrievanceNotFound = errors.New("grievance not found")
	// ErrStudentNotFound indicates no student record matches the caller.
	ErrStudentNotFound = errors.New("student record not found")
	// ErrInstructorNotFound indicates no instructor record matches the caller.
	ErrInstructorNotFound = errors.New("instructor record not found")

	// ErrDuplicateSubmission indicates a submission already exists for the
	// (student, exam) pair on the self-submission path.
	ErrDuplicateSubmission = errors.New("submission already exists for this exam")
	// ErrDuplicateGrievance indicates a grievance was already filed
	// against the submission.
	ErrDuplicateGrievance = errors.New("grievance already filed for this submission")

	// ErrEmptyBatch indicates a bulk upload call carried no files.
	ErrEmptyBatch = errors.New("at least one file is required")

	// ErrExamNotActive indicates the exam is closed for submissions.
	ErrExamNotActive = errors.New("exam is not open for submissions")
	// ErrGrievanceClosed indicates a transition was attempted on a
	// resolved or rejected grievance.
	ErrGrievanceClosed = errors.New("grievance is already closed")
	// ErrResponseRequired indicates a respond action without response text.
	ErrResponseRequired = errors.New("instructor response is required")

	// ErrInvalidFileType indicates an upload with an unsupported content type.
	ErrInvalidFileType = errors.New("only PDF files are allowed")

	// ErrStorageFailure indicates the blob store rejected an upload.
	ErrStorageFailure = errors.New("file storage failed")
)

package dto

import "time"

// TeacherDashboardResponse aggregates grading workload for an instructor.
type TeacherDashboardResponse struct {
	Statistics        TeacherStatistics `json:"statistics"`
	RecentExams       []ExamResponse    `json:"recent_exams"`
	GradeDistribution GradeDistribution `json:"grade_distribution"`
}

// TeacherStatistics captures instructor-scoped counters.
type TeacherStatistics struct {
	TotalExams         int64 `json:"total_exams"`
	TotalSubmissions   int64 `json:"total_submissions"`
	PendingSubmissions int64 `json:"pending_submissions"`
	StudentsGraded     int64 `json:"students_graded"`
}

// GradeDistribution buckets graded submissions into letter bands.
type GradeDistribution struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
	F int `json:"F"`
}

// StudentDashboardResponse aggregates exam progress for a student.
type StudentDashboardResponse struct {
	Statistics     StudentStatistics `json:"statistics"`
	RecentlyGraded []GradedExamEntry `json:"recently_graded"`
	ScoreData      []ScorePoint      `json:"score_data"`
}

// StudentStatistics captures student-scoped counters.
type StudentStatistics struct {
	TotalExamsTaken int64 `json:"total_exams_taken"`
	AverageScore    int   `json:"average_score"`
	PendingGrading  int64 `json:"pending_grading"`
}

// GradedExamEntry summarizes a recently graded submission.
type GradedExamEntry struct {
	SubmissionID uint       `json:"submission_id"`
	ExamID       uint       `json:"exam_id"`
	ExamTitle    string     `json:"exam_title"`
	Marks        *float64   `json:"marks"`
	GradedAt     *time.Time `json:"graded_at"`
}

// ScorePoint is one entry of a student's score trend.
type ScorePoint struct {
	Name  string  `json:"name"`
	Marks float64 `json:"marks"`
}

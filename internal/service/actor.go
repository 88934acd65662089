package service

// Role names carried in auth tokens.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Actor is the authenticated caller identity, passed explicitly into
// every operation. UserID is the external user reference; services
// resolve it to a Student or Instructor record themselves.
type Actor struct {
	UserID string
	Role   string
}

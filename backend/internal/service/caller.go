package service

// Caller is the authenticated teacher a request acts for.
type Caller struct {
	TeacherID uint
	IsAdmin   bool
}

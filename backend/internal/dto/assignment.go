package dto

// ── Teaching assignment DTOs ──

// CreateAssignmentRequest create teaching assignment
type CreateAssignmentRequest struct {
	TeacherID uint `json:"teacher_id" binding:"required"`
	GroupID   uint `json:"group_id"   binding:"required"`
	ModuleID  uint `json:"module_id"  binding:"required"`
}

// AssignmentListQuery admin listing filters
type AssignmentListQuery struct {
	TeacherID uint   `form:"teacher_id"`
	Year      string `form:"year" binding:"omitempty,academic_year"`
}

// AssignmentResponse teaching assignment with names resolved
type AssignmentResponse struct {
	ID           uint   `json:"id"`
	TeacherID    uint   `json:"teacher_id"`
	TeacherName  string `json:"teacher_name"`
	TeacherEmail string `json:"teacher_email"`
	GroupID      uint   `json:"group_id"`
	GroupName    string `json:"group_name"`
	ModuleID     uint   `json:"module_id"`
	ModuleName   string `json:"module_name"`
	AcademicYear string `json:"academic_year"`
}

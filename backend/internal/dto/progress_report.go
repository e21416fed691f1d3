package dto

// ── Progress report DTOs ──

// CreateProgressReportRequest file a monthly report
type CreateProgressReportRequest struct {
	AssignmentID               uint   `json:"assignment_id"               binding:"required"`
	Month                      int    `json:"month"                       binding:"required,min=1,max=12"`
	CurrentUnitID              uint   `json:"current_unit_id"             binding:"required"`
	CompletedUnitIDs           []uint `json:"completed_unit_ids"`
	LastContentTaught          string `json:"last_content_taught"         binding:"required"`
	Status                     string `json:"status"                      binding:"required,oneof=ahead on_time behind"`
	StatusJustification        string `json:"status_justification"`
	Compliance                 *bool  `json:"compliance"                  binding:"required"`
	NoncomplianceJustification string `json:"noncompliance_justification"`
	NoncomplianceReason        string `json:"noncompliance_reason"        binding:"omitempty,oneof=sequence_change lost_sessions group_level other"`
	Evaluation                 string `json:"evaluation"                  binding:"required,oneof=first second third"`
}

// UpdateProgressReportRequest change a report. Absent fields keep their value;
// assignment_id and month may only be repeated unchanged.
type UpdateProgressReportRequest struct {
	AssignmentID               *uint   `json:"assignment_id"`
	Month                      *int    `json:"month"                       binding:"omitempty,min=1,max=12"`
	CurrentUnitID              *uint   `json:"current_unit_id"             binding:"omitempty,min=1"`
	CompletedUnitIDs           *[]uint `json:"completed_unit_ids"`
	LastContentTaught          *string `json:"last_content_taught"         binding:"omitempty,min=1"`
	Status                     *string `json:"status"                      binding:"omitempty,oneof=ahead on_time behind"`
	StatusJustification        *string `json:"status_justification"`
	Compliance                 *bool   `json:"compliance"`
	NoncomplianceJustification *string `json:"noncompliance_justification"`
	NoncomplianceReason        *string `json:"noncompliance_reason"        binding:"omitempty,oneof=sequence_change lost_sessions group_level other"`
	Evaluation                 *string `json:"evaluation"                  binding:"omitempty,oneof=first second third"`
}

// ReportListQuery list filters; year defaults to the current academic year
type ReportListQuery struct {
	Year  string `form:"year"  binding:"omitempty,academic_year"`
	Month int    `form:"month" binding:"omitempty,min=1,max=12"`
}

// ProgressReportResponse progress report
type ProgressReportResponse struct {
	ID                         uint               `json:"id"`
	AssignmentID               uint               `json:"assignment_id"`
	Assignment                 *AssignmentResponse `json:"assignment,omitempty"`
	Month                      int                `json:"month"`
	CurrentUnit                WorkUnitResponse   `json:"current_unit"`
	CompletedUnits             []WorkUnitResponse `json:"completed_units"`
	LastContentTaught          string             `json:"last_content_taught"`
	Status                     string             `json:"status"`
	StatusJustification        string             `json:"status_justification"`
	Compliance                 bool               `json:"compliance"`
	NoncomplianceJustification string             `json:"noncompliance_justification"`
	NoncomplianceReason        string             `json:"noncompliance_reason"`
	Evaluation                 string             `json:"evaluation"`
	CreatedAt                  string             `json:"created_at"`
	UpdatedAt                  string             `json:"updated_at"`
}

// ExportQuery export parameters
type ExportQuery struct {
	Year   string `form:"year"   binding:"omitempty,academic_year"`
	Month  int    `form:"month"  binding:"omitempty,min=1,max=12"`
	Format string `form:"format" binding:"omitempty,oneof=xlsx csv"`
}

package model

// Report status values.
const (
	StatusAhead  = "ahead"
	StatusOnTime = "on_time"
	StatusBehind = "behind"
)

// Evaluation periods.
const (
	EvaluationFirst  = "first"
	EvaluationSecond = "second"
	EvaluationThird  = "third"
)

// Reasons a report may give for not following the programme.
const (
	ReasonSequenceChange = "sequence_change"
	ReasonLostSessions   = "lost_sessions"
	ReasonGroupLevel     = "group_level"
	ReasonOther          = "other"
)

// ProgressReport monthly follow-up of one teaching assignment (table progress_reports)
type ProgressReport struct {
	ID                         uint   `gorm:"primaryKey"                      json:"id"`
	AssignmentID               uint   `gorm:"not null"                        json:"assignment_id"`
	GroupID                    uint   `gorm:"not null"                        json:"group_id"`
	ModuleID                   uint   `gorm:"not null"                        json:"module_id"`
	Month                      int    `gorm:"not null"                        json:"month"`
	CurrentUnitID              uint   `gorm:"not null"                        json:"current_unit_id"`
	LastContentTaught          string `gorm:"type:text;not null"              json:"last_content_taught"`
	Status                     string `gorm:"type:varchar(10);not null"       json:"status"`
	StatusJustification        string `gorm:"type:text;not null;default:''"   json:"status_justification"`
	Compliance                 bool   `gorm:"not null"                        json:"compliance"`
	NoncomplianceJustification string `gorm:"type:text;not null;default:''"   json:"noncompliance_justification"`
	NoncomplianceReason        string `gorm:"type:varchar(20);not null;default:''" json:"noncompliance_reason"`
	Evaluation                 string `gorm:"type:varchar(10);not null"       json:"evaluation"`
	AuditedModel

	Assignment     *TeachingAssignment `gorm:"foreignKey:AssignmentID"                         json:"assignment,omitempty"`
	CurrentUnit    *WorkUnit           `gorm:"foreignKey:CurrentUnitID"                        json:"current_unit,omitempty"`
	CompletedUnits []WorkUnit          `gorm:"many2many:progress_report_completed_units;joinForeignKey:ProgressReportID;joinReferences:WorkUnitID" json:"completed_units,omitempty"`
}

// TableName table name
func (ProgressReport) TableName() string { return "progress_reports" }

// ProgressReportCompletedUnit join row (table progress_report_completed_units)
type ProgressReportCompletedUnit struct {
	ProgressReportID uint `gorm:"primaryKey"`
	WorkUnitID       uint `gorm:"primaryKey"`
}

// TableName table name
func (ProgressReportCompletedUnit) TableName() string { return "progress_report_completed_units" }

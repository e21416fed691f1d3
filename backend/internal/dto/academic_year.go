package dto

// ── Academic year DTOs ──

// CreateAcademicYearRequest create academic year
type CreateAcademicYearRequest struct {
	Year    string `json:"year"    binding:"required,academic_year"`
	Current bool   `json:"current"`
}

// AcademicYearResponse academic year
type AcademicYearResponse struct {
	Year      string `json:"year"`
	Current   bool   `json:"current"`
	CreatedAt string `json:"created_at"`
}

// CurrentYearResponse body of GET /current-year
type CurrentYearResponse struct {
	CurrentAcademicYear string `json:"current_academic_year"`
}

// Clone scopes, each one including the previous.
const (
	CloneScopeCycles      = "cycles"
	CloneScopeModules     = "modules"
	CloneScopeAssignments = "assignments"
)

// CloneYearRequest copy a year's structure into a new year
type CloneYearRequest struct {
	TargetYear string `json:"target_year" binding:"required,academic_year"`
	Scope      string `json:"scope"       binding:"required,oneof=cycles modules assignments"`
}

// CloneYearResponse rows created by a clone
type CloneYearResponse struct {
	SourceYear  string `json:"source_year"`
	TargetYear  string `json:"target_year"`
	Cycles      int    `json:"cycles"`
	Modules     int    `json:"modules"`
	WorkUnits   int    `json:"work_units"`
	Groups      int    `json:"groups"`
	Assignments int    `json:"assignments"`
}

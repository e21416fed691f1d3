package dto

// ── Cycle ──

// CreateCycleRequest create cycle
type CreateCycleRequest struct {
	Name         string `json:"name"          binding:"required,max=100"`
	AcademicYear string `json:"academic_year" binding:"required,academic_year"`
}

// UpdateCycleRequest update cycle
type UpdateCycleRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=1,max=100"`
	AcademicYear *string `json:"academic_year" binding:"omitempty,academic_year"`
}

// CycleResponse cycle
type CycleResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	AcademicYear string `json:"academic_year"`
}

// CurriculumListQuery filters for group and module listings
type CurriculumListQuery struct {
	CycleID uint   `form:"cycle_id"`
	Year    string `form:"year" binding:"omitempty,academic_year"`
}

// ── Group ──

// CreateGroupRequest create group
type CreateGroupRequest struct {
	Name    string `json:"name"     binding:"required,max=100"`
	CycleID uint   `json:"cycle_id" binding:"required"`
	Course  int    `json:"course"   binding:"required,min=1"`
}

// UpdateGroupRequest update group
type UpdateGroupRequest struct {
	Name    *string `json:"name"     binding:"omitempty,min=1,max=100"`
	CycleID *uint   `json:"cycle_id" binding:"omitempty,min=1"`
	Course  *int    `json:"course"   binding:"omitempty,min=1"`
}

// GroupResponse group
type GroupResponse struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	Course  int            `json:"course"`
	CycleID uint           `json:"cycle_id"`
	Cycle   *CycleResponse `json:"cycle,omitempty"`
}

// ── Module ──

// CreateModuleRequest create module
type CreateModuleRequest struct {
	Name    string `json:"name"     binding:"required,max=200"`
	Course  int    `json:"course"   binding:"required,min=1"`
	CycleID uint   `json:"cycle_id" binding:"required"`
}

// UpdateModuleRequest update module
type UpdateModuleRequest struct {
	Name    *string `json:"name"     binding:"omitempty,min=1,max=200"`
	Course  *int    `json:"course"   binding:"omitempty,min=1"`
	CycleID *uint   `json:"cycle_id" binding:"omitempty,min=1"`
}

// ModuleResponse module
type ModuleResponse struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	Course  int            `json:"course"`
	CycleID uint           `json:"cycle_id"`
	Cycle   *CycleResponse `json:"cycle,omitempty"`
}

// ── Work unit ──

// CreateWorkUnitRequest create work unit
type CreateWorkUnitRequest struct {
	ModuleID   uint   `json:"module_id"   binding:"required"`
	UnitNumber int    `json:"unit_number" binding:"required,min=1"`
	Title      string `json:"title"       binding:"required,max=255"`
}

// UpdateWorkUnitRequest update work unit
type UpdateWorkUnitRequest struct {
	UnitNumber *int    `json:"unit_number" binding:"omitempty,min=1"`
	Title      *string `json:"title"       binding:"omitempty,min=1,max=255"`
}

// WorkUnitResponse work unit
type WorkUnitResponse struct {
	ID         uint   `json:"id"`
	ModuleID   uint   `json:"module_id"`
	UnitNumber int    `json:"unit_number"`
	Title      string `json:"title"`
	Covered    bool   `json:"covered"`
}

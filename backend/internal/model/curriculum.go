package model

// Cycle a vocational training cycle taught in one academic year (table cycles)
type Cycle struct {
	ID           uint   `gorm:"primaryKey"                json:"id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	AcademicYear string `gorm:"type:varchar(7);not null"   json:"academic_year"`
	BaseModel
}

// TableName table name
func (Cycle) TableName() string { return "cycles" }

// Group a cohort of students in a cycle and course (table groups)
type Group struct {
	ID      uint   `gorm:"primaryKey"                json:"id"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	CycleID uint   `gorm:"not null"                   json:"cycle_id"`
	Course  int    `gorm:"not null"                   json:"course"`
	BaseModel

	Cycle *Cycle `gorm:"foreignKey:CycleID" json:"cycle,omitempty"`
}

// TableName table name
func (Group) TableName() string { return "groups" }

// Module a subject taught in a cycle and course (table modules)
type Module struct {
	ID      uint   `gorm:"primaryKey"                json:"id"`
	Name    string `gorm:"type:varchar(200);not null" json:"name"`
	Course  int    `gorm:"not null"                   json:"course"`
	CycleID uint   `gorm:"not null"                   json:"cycle_id"`
	BaseModel

	Cycle *Cycle `gorm:"foreignKey:CycleID" json:"cycle,omitempty"`
}

// TableName table name
func (Module) TableName() string { return "modules" }

// WorkUnit an ordered syllabus unit of a module (table work_units)
type WorkUnit struct {
	ID         uint   `gorm:"primaryKey"                json:"id"`
	UnitNumber int    `gorm:"not null"                   json:"unit_number"`
	Title      string `gorm:"type:varchar(255);not null" json:"title"`
	Covered    bool   `gorm:"not null;default:false"     json:"covered"`
	ModuleID   uint   `gorm:"not null"                   json:"module_id"`
	BaseModel
}

// TableName table name
func (WorkUnit) TableName() string { return "work_units" }

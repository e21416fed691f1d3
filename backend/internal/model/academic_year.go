package model

// AcademicYear academic years, keyed by their "YYYY-YY" label (table academic_years)
type AcademicYear struct {
	Year    string `gorm:"type:varchar(7);primaryKey" json:"year"`
	Current bool   `gorm:"not null;default:false"     json:"current"`
	BaseModel
}

// TableName table name
func (AcademicYear) TableName() string { return "academic_years" }

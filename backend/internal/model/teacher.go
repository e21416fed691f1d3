package model

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Teacher staff account (table teachers)
type Teacher struct {
	ID        uint       `gorm:"primaryKey"                json:"id"`
	Email     string     `gorm:"type:varchar(254);not null" json:"email"`
	Name      string     `gorm:"type:varchar(150);not null" json:"name"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	Active    bool       `gorm:"not null"                  json:"active"`
	IsAdmin   bool       `gorm:"not null;default:false"     json:"is_admin"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	BaseModel
}

// TableName table name
func (Teacher) TableName() string { return "teachers" }

// BeforeSave hashes Password unless it already holds a bcrypt hash.
func (t *Teacher) BeforeSave(_ *gorm.DB) error {
	if t.Password == "" || IsPasswordHash(t.Password) {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(t.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	t.Password = string(hash)
	return nil
}

// CheckPassword compares plain against the stored hash.
func (t *Teacher) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(t.Password), []byte(plain)) == nil
}

// IsPasswordHash reports whether s looks like a bcrypt hash.
func IsPasswordHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// TeachingAssignment a teacher teaching a module to a group (table teaching_assignments)
type TeachingAssignment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TeacherID uint `gorm:"not null"   json:"teacher_id"`
	GroupID   uint `gorm:"not null"   json:"group_id"`
	ModuleID  uint `gorm:"not null"   json:"module_id"`
	BaseModel

	Teacher *Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Group   *Group   `gorm:"foreignKey:GroupID"   json:"group,omitempty"`
	Module  *Module  `gorm:"foreignKey:ModuleID"  json:"module,omitempty"`
}

// TableName table name
func (TeachingAssignment) TableName() string { return "teaching_assignments" }

// Pair is the (group, module) key reports are unique on.
func (a TeachingAssignment) Pair() GroupModule {
	return GroupModule{GroupID: a.GroupID, ModuleID: a.ModuleID}
}

// GroupModule identifies what is being taught to whom, regardless of teacher.
type GroupModule struct {
	GroupID  uint
	ModuleID uint
}

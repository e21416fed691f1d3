package dto

// ── Teacher DTOs ──

// CreateTeacherRequest create teacher
type CreateTeacherRequest struct {
	Email    string `json:"email"    binding:"required,email,max=254"`
	Name     string `json:"name"     binding:"required,max=150"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Active   *bool  `json:"active"`
	IsAdmin  bool   `json:"is_admin"`
}

// UpdateTeacherRequest update teacher
type UpdateTeacherRequest struct {
	Email   *string `json:"email"    binding:"omitempty,email,max=254"`
	Name    *string `json:"name"     binding:"omitempty,min=1,max=150"`
	Active  *bool   `json:"active"`
	IsAdmin *bool   `json:"is_admin"`
}

// SetPasswordRequest admin password reset
type SetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// TeacherResponse teacher without credentials
type TeacherResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	IsAdmin   bool   `json:"is_admin"`
	LastLogin string `json:"last_login,omitempty"`
}

package dto

// ── Reminder and email configuration DTOs ──

// SendRemindersRequest remind the teachers of the given assignments
type SendRemindersRequest struct {
	AssignmentIDs []uint `json:"assignment_ids" binding:"required,min=1"`
	Month         int    `json:"month"          binding:"required,min=1,max=12"`
}

// SendRemindersResponse aggregated dispatch result
type SendRemindersResponse struct {
	Status              string   `json:"status"`
	Detail              string   `json:"detail"`
	EmailsSent          int      `json:"emails_sent"`
	EmailsFailed        int      `json:"emails_failed"`
	TotalTeachers       int      `json:"total_teachers"`
	InactiveTeachers    []string `json:"inactive_teachers"`
	AssignmentsNotFound []uint   `json:"assignments_not_found"`
}

// ReminderTemplateRequest update reminder template
type ReminderTemplateRequest struct {
	Subject string `json:"subject" binding:"required,max=255"`
	Body    string `json:"body"    binding:"required"`
}

// ReminderTemplateResponse reminder template
type ReminderTemplateResponse struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// UpdateEmailSettingsRequest update transport settings; secrets are write-only
type UpdateEmailSettingsRequest struct {
	Provider       *string `json:"provider"         binding:"omitempty,oneof=smtp sendgrid console"`
	Host           *string `json:"host"             binding:"omitempty,max=255"`
	Port           *int    `json:"port"             binding:"omitempty,min=1,max=65535"`
	Username       *string `json:"username"         binding:"omitempty,max=255"`
	Password       *string `json:"password"         binding:"omitempty,max=255"`
	UseTLS         *bool   `json:"use_tls"`
	UseSSL         *bool   `json:"use_ssl"`
	FailSilently   *bool   `json:"fail_silently"`
	TimeoutSeconds *int    `json:"timeout_seconds"  binding:"omitempty,min=1,max=600"`
	SendGridAPIKey *string `json:"sendgrid_api_key" binding:"omitempty,max=255"`
}

// EmailSettingsResponse transport settings without secrets
type EmailSettingsResponse struct {
	Provider          string `json:"provider"`
	Host              string `json:"host"`
	Port              int    `json:"port"`
	Username          string `json:"username"`
	PasswordSet       bool   `json:"password_set"`
	UseTLS            bool   `json:"use_tls"`
	UseSSL            bool   `json:"use_ssl"`
	FailSilently      bool   `json:"fail_silently"`
	TimeoutSeconds    int    `json:"timeout_seconds"`
	SendGridAPIKeySet bool   `json:"sendgrid_api_key_set"`
	UpdatedAt         string `json:"updated_at,omitempty"`
}

package model

import "time"

// ReminderEmailConfig reminder subject/body templates, single row (table reminder_email_configs)
type ReminderEmailConfig struct {
	Singleton bool      `gorm:"primaryKey;default:true"     json:"-"`
	Subject   string    `gorm:"type:varchar(255);not null"  json:"subject"`
	Body      string    `gorm:"type:text;not null"          json:"body"`
	UpdatedBy *uint     `json:"updated_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName table name
func (ReminderEmailConfig) TableName() string { return "reminder_email_configs" }

// EmailSettings outbound mail transport, single row (table email_settings)
type EmailSettings struct {
	Singleton      bool      `gorm:"primaryKey;default:true"                json:"-"`
	Provider       string    `gorm:"type:varchar(10);not null;default:'console'" json:"provider"` // smtp | sendgrid | console
	Host           string    `gorm:"type:varchar(255);not null;default:''"  json:"host"`
	Port           int       `gorm:"not null;default:587"                   json:"port"`
	Username       string    `gorm:"type:varchar(255);not null;default:''"  json:"username"`
	Password       string    `gorm:"type:varchar(255);not null;default:''"  json:"-"`
	UseTLS         bool      `gorm:"column:use_tls;not null"                json:"use_tls"`
	UseSSL         bool      `gorm:"column:use_ssl;not null;default:false"  json:"use_ssl"`
	FailSilently   bool      `gorm:"not null;default:false"                 json:"fail_silently"`
	TimeoutSeconds int       `gorm:"not null;default:60"                    json:"timeout_seconds"`
	SendGridAPIKey string    `gorm:"column:sendgrid_api_key;type:varchar(255);not null;default:''" json:"-"`
	UpdatedBy      *uint     `json:"updated_by,omitempty"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"     json:"updated_at"`
}

// TableName table name
func (EmailSettings) TableName() string { return "email_settings" }

// DefaultEmailSettings is used until an admin saves the row.
func DefaultEmailSettings() EmailSettings {
	return EmailSettings{
		Singleton:      true,
		Provider:       "console",
		Port:           587,
		UseTLS:         true,
		TimeoutSeconds: 60,
	}
}

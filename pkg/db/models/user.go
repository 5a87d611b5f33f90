package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can sign in and submit attributed reports.
type User struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                 string    `gorm:"column:name;not null"`
	Email                string    `gorm:"column:email;type:text;not null;uniqueIndex:idx_users_email"`
	PasswordHash         string    `gorm:"column:password_hash;not null"`
	Phone                *string   `gorm:"column:phone"`
	City                 *string   `gorm:"column:city"`
	IsActive             bool      `gorm:"column:is_active;not null"`
	PrefAnonymousReports bool      `gorm:"column:pref_anonymous_reports;not null"`
	PrefEmergencyAlerts  bool      `gorm:"column:pref_emergency_alerts;not null"`
	PrefReportUpdates    bool      `gorm:"column:pref_report_updates;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

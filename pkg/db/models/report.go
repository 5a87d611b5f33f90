package models

import (
	"time"

	"github.com/flo-app/flo-backend/pkg/enums"
	"github.com/flo-app/flo-backend/pkg/types"
	"github.com/google/uuid"
)

// Report is a submitted incident. UserID is set only for attributed reports.
type Report struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	UserID         *uuid.UUID         `gorm:"column:user_id;type:uuid;index:idx_reports_user_id;check:chk_reports_attribution,(is_anonymous AND user_id IS NULL) OR (NOT is_anonymous AND user_id IS NOT NULL)"`
	User           *User              `gorm:"foreignKey:UserID;references:ID"`
	Type           enums.ReportType   `gorm:"column:type;type:report_type;not null;index:idx_reports_type"`
	Description    string             `gorm:"column:description;not null"`
	IncidentDate   *time.Time         `gorm:"column:incident_date"`
	Location       *types.Location    `gorm:"column:location;type:jsonb"`
	IsAnonymous    bool               `gorm:"column:is_anonymous;not null"`
	HasEvidence    bool               `gorm:"column:has_evidence;not null"`
	NeedsHelp      bool               `gorm:"column:needs_help;not null"`
	Status         enums.ReportStatus `gorm:"column:status;type:report_status;not null;index:idx_reports_status"`
	ProtocolNumber string             `gorm:"column:protocol_number;not null;uniqueIndex:idx_reports_protocol_number"`
	AssignedTo     *string            `gorm:"column:assigned_to"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime;index:idx_reports_created_at"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Report) TableName() string { return "reports" }

package reports

import (
	"time"

	"github.com/flo-app/flo-backend/pkg/db/models"
	"github.com/flo-app/flo-backend/pkg/enums"
	"github.com/flo-app/flo-backend/pkg/types"
	"github.com/google/uuid"
)

const createdMessage = "report submitted successfully"

// CreateReportRequest is the POST /reports body.
type CreateReportRequest struct {
	Type         string          `json:"type" validate:"required,notblank"`
	Description  string          `json:"description" validate:"required,notblank,max=5000"`
	IncidentDate *time.Time      `json:"incident_date,omitempty"`
	Location     *types.Location `json:"location,omitempty"`
	IsAnonymous  bool            `json:"is_anonymous"`
	HasEvidence  bool            `json:"has_evidence"`
	NeedsHelp    bool            `json:"needs_help"`
}

type CreateReportResponse struct {
	ProtocolNumber string    `json:"protocol_number"`
	ReportID       uuid.UUID `json:"report_id"`
	Message        string    `json:"message"`
}

// UpdateStatusRequest is the PUT /reports/{id}/status body.
type UpdateStatusRequest struct {
	Status     string  `json:"status" validate:"required,notblank"`
	AssignedTo *string `json:"assigned_to,omitempty" validate:"omitempty,max=200"`
}

// ListParams are the raw list filters; empty strings mean no filter.
type ListParams struct {
	Status string
	Type   string
	Page   int
	Limit  int
}

// ListFilter is the validated filter handed to the repository.
type ListFilter struct {
	Status *enums.ReportStatus
	Type   *enums.ReportType
}

type ListResponse struct {
	Reports     []ReportDTO `json:"reports"`
	TotalPages  int         `json:"total_pages"`
	CurrentPage int         `json:"current_page"`
	Total       int64       `json:"total"`
}

// Submitter is the resolved author of an attributed report.
type Submitter struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReportDTO struct {
	ID             uuid.UUID          `json:"id"`
	UserID         *uuid.UUID         `json:"user_id,omitempty"`
	Submitter      *Submitter         `json:"submitter,omitempty"`
	Type           enums.ReportType   `json:"type"`
	Description    string             `json:"description"`
	IncidentDate   *time.Time         `json:"incident_date,omitempty"`
	Location       *types.Location    `json:"location,omitempty"`
	IsAnonymous    bool               `json:"is_anonymous"`
	HasEvidence    bool               `json:"has_evidence"`
	NeedsHelp      bool               `json:"needs_help"`
	Status         enums.ReportStatus `json:"status"`
	ProtocolNumber string             `json:"protocol_number"`
	AssignedTo     *string            `json:"assigned_to,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func FromModel(r *models.Report) ReportDTO {
	dto := ReportDTO{
		ID:             r.ID,
		UserID:         r.UserID,
		Type:           r.Type,
		Description:    r.Description,
		IncidentDate:   r.IncidentDate,
		Location:       r.Location,
		IsAnonymous:    r.IsAnonymous,
		HasEvidence:    r.HasEvidence,
		NeedsHelp:      r.NeedsHelp,
		Status:         r.Status,
		ProtocolNumber: r.ProtocolNumber,
		AssignedTo:     r.AssignedTo,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.User != nil && r.UserID != nil {
		dto.Submitter = &Submitter{Name: r.User.Name, Email: r.User.Email}
	}
	return dto
}

func fromModels(rows []models.Report) []ReportDTO {
	out := make([]ReportDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flo-app/flo-backend/pkg/config"
	"github.com/flo-app/flo-backend/pkg/db"
	"github.com/flo-app/flo-backend/pkg/db/models"
	"github.com/flo-app/flo-backend/pkg/enums"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/flo-app/flo-backend/pkg/metrics"
	"github.com/flo-app/flo-backend/pkg/pagination"
	"github.com/google/uuid"
)

const (
	reportNotFoundMessage   = "report not found"
	protocolConstraint      = "idx_reports_protocol_number"
	defaultProtocolAttempts = 3
)

// Service is the report lifecycle: submission, lookup and status changes.
type Service interface {
	Create(ctx context.Context, req CreateReportRequest, submitterID *uuid.UUID) (*CreateReportResponse, error)
	List(ctx context.Context, params ListParams) (*ListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ReportDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]ReportDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*ReportDTO, error)
}

type reportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]models.Report, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReportStatus, assignedTo *string) (*models.Report, error)
}

type ServiceParams struct {
	Repo      reportRepository
	Config    config.ReportsConfig
	Metrics   *metrics.ReportMetrics
	Protocols ProtocolGenerator
	Now       func() time.Time
}

type service struct {
	repo      reportRepository
	cfg       config.ReportsConfig
	metrics   *metrics.ReportMetrics
	protocols ProtocolGenerator
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("report repository is required")
	}
	cfg := params.Config
	if cfg.ProtocolAttempts <= 0 {
		cfg.ProtocolAttempts = defaultProtocolAttempts
	}
	protocols := params.Protocols
	if protocols == nil {
		protocols = NewProtocolNumber
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:      params.Repo,
		cfg:       cfg,
		metrics:   params.Metrics,
		protocols: protocols,
		now:       now,
	}, nil
}

// Create persists a report. The submitter is recorded only for non-anonymous reports; a
// non-anonymous report without a submitter is stored as anonymous.
func (s *service) Create(ctx context.Context, req CreateReportRequest, submitterID *uuid.UUID) (*CreateReportResponse, error) {
	report, err := s.buildReport(req, submitterID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		protocol, err := s.protocols(s.now())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate protocol number")
		}
		report.ProtocolNumber = protocol

		err = s.repo.Create(ctx, report)
		if err == nil {
			break
		}
		if !db.IsUniqueViolation(err, protocolConstraint) && !db.IsUniqueViolation(err, "reports.protocol_number") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create report")
		}
		s.metrics.IncProtocolCollision()
		if attempt >= s.cfg.ProtocolAttempts {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "protocol number collisions exhausted")
		}
		report.ID = uuid.New()
	}

	s.metrics.IncCreated(string(report.Type), report.IsAnonymous)
	return &CreateReportResponse{
		ProtocolNumber: report.ProtocolNumber,
		ReportID:       report.ID,
		Message:        createdMessage,
	}, nil
}

func (s *service) buildReport(req CreateReportRequest, submitterID *uuid.UUID) (*models.Report, error) {
	reportType, err := enums.ParseReportType(strings.TrimSpace(req.Type))
	if err != nil {
		return nil, invalidType(err)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}

	location := req.Location
	if location != nil {
		if c := location.Coordinates; c != nil {
			if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
			}
		}
		if location.IsZero() {
			location = nil
		}
	}

	report := &models.Report{
		ID:           uuid.New(),
		Type:         reportType,
		Description:  description,
		IncidentDate: req.IncidentDate,
		Location:     location,
		IsAnonymous:  req.IsAnonymous,
		HasEvidence:  req.HasEvidence,
		NeedsHelp:    req.NeedsHelp,
		Status:       enums.ReportStatusPending,
	}
	if !req.IsAnonymous && submitterID != nil && *submitterID != uuid.Nil {
		id := *submitterID
		report.UserID = &id
	} else {
		report.IsAnonymous = true
	}
	return report, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResponse, error) {
	if params.Page < 0 || params.Limit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "page and limit must be positive")
	}
	filter, err := parseFilter(params)
	if err != nil {
		return nil, err
	}

	page := pagination.Params{Page: params.Page, Limit: params.Limit}.Normalize(s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	rows, total, err := s.repo.List(ctx, filter, page.Offset(), page.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reports")
	}

	return &ListResponse{
		Reports:     fromModels(rows),
		TotalPages:  pagination.TotalPages(total, page.Limit),
		CurrentPage: page.Page,
		Total:       total,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ReportDTO, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "load report")
	}
	dto := FromModel(report)
	return &dto, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]ReportDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user reports")
	}
	return fromModels(rows), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*ReportDTO, error) {
	status, err := enums.ParseReportStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return nil, invalidStatus(err)
	}
	var assignedTo *string
	if req.AssignedTo != nil {
		trimmed := strings.TrimSpace(*req.AssignedTo)
		assignedTo = &trimmed
	}

	report, err := s.repo.UpdateStatus(ctx, id, status, assignedTo)
	if err != nil {
		return nil, mapRepoError(err, "update report status")
	}
	s.metrics.IncStatusUpdate(string(status))
	dto := FromModel(report)
	return &dto, nil
}

func parseFilter(params ListParams) (ListFilter, error) {
	var filter ListFilter
	if raw := strings.TrimSpace(params.Status); raw != "" {
		status, err := enums.ParseReportStatus(raw)
		if err != nil {
			return ListFilter{}, invalidStatus(err)
		}
		filter.Status = &status
	}
	if raw := strings.TrimSpace(params.Type); raw != "" {
		reportType, err := enums.ParseReportType(raw)
		if err != nil {
			return ListFilter{}, invalidType(err)
		}
		filter.Type = &reportType
	}
	return filter, nil
}

func invalidType(err error) error {
	return pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
		WithDetails(map[string]any{"allowed": enums.ReportTypes()})
}

func invalidStatus(err error) error {
	return pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
		WithDetails(map[string]any{"allowed": enums.ReportStatuses()})
}

func mapRepoError(err error, action string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, reportNotFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

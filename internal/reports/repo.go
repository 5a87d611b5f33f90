package reports

import (
	"context"

	"github.com/flo-app/flo-backend/internal/repo"
	"github.com/flo-app/flo-backend/pkg/db/models"
	"github.com/flo-app/flo-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const newestFirst = "reports.created_at DESC, reports.id DESC"

// Repository exposes report persistence. Reads resolve the submitter through a left join.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, report *models.Report) error {
	return r.DB(ctx).Omit("User").Create(report).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.DB(ctx).Joins("User").Where("reports.id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns one page of reports matching filter plus the total match count.
func (r *Repository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]models.Report, int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&models.Report{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.Report{}
	if total == 0 {
		return rows, 0, nil
	}
	err := r.DB(ctx).
		Joins("User").
		Scopes(filter.scope).
		Order(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByUser returns attributed reports of userID, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Report, error) {
	rows := []models.Report{}
	err := r.DB(ctx).
		Joins("User").
		Where("reports.user_id = ? AND reports.is_anonymous = ?", userID, false).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets status and, when given, assigned_to. Returns gorm.ErrRecordNotFound when no row matched.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReportStatus, assignedTo *string) (*models.Report, error) {
	cols := map[string]any{"status": status}
	if assignedTo != nil {
		cols["assigned_to"] = *assignedTo
	}
	found, err := repo.Affected(r.DB(ctx).Model(&models.Report{}).Where("id = ?", id).Updates(cols))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (f ListFilter) scope(tx *gorm.DB) *gorm.DB {
	if f.Status != nil {
		tx = tx.Where("reports.status = ?", *f.Status)
	}
	if f.Type != nil {
		tx = tx.Where("reports.type = ?", *f.Type)
	}
	return tx
}

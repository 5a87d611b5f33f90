package users

import (
	"context"

	"github.com/flo-app/flo-backend/internal/repo"
	"github.com/flo-app/flo-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user persistence.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail expects an already-normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies the column map and reports gorm.ErrRecordNotFound when no row matched.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, cols map[string]any) (*models.User, error) {
	if len(cols) > 0 {
		found, err := repo.Affected(r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols))
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Deactivate flips is_active off; the row is never removed.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	found, err := repo.Affected(r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", false))
	if err != nil {
		return err
	}
	if !found {
		return gorm.ErrRecordNotFound
	}
	return nil
}

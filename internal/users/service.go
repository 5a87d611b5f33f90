package users

import (
	"context"
	"fmt"

	"github.com/flo-app/flo-backend/pkg/db"
	"github.com/flo-app/flo-backend/pkg/db/models"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/google/uuid"
)

const (
	userNotFoundMessage = "user not found"
	// DeactivatedMessage is returned to the client after a soft delete.
	DeactivatedMessage = "account deactivated"
)

// Service is the self-service profile surface.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, cols map[string]any) (*models.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type ServiceParams struct {
	Repo userRepository
}

type service struct {
	repo userRepository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	req.Password = nil
	cols := req.Columns()
	if name, ok := cols["name"].(string); ok && name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
	}

	user, err := s.repo.Update(ctx, id, cols)
	if err != nil {
		return nil, mapRepoError(err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return mapRepoError(err, "deactivate user")
	}
	return nil
}

func mapRepoError(err error, action string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

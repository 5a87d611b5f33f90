package controllers

import (
	"math"
	"net/http"
	"strings"

	"github.com/flo-app/flo-backend/api/middleware"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxQueryInt = math.MaxInt32

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

func currentUserID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required")
	}
	return id, nil
}

func optionalUserID(r *http.Request) *uuid.UUID {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		return nil
	}
	return &id
}

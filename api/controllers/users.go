package controllers

import (
	"net/http"

	"github.com/flo-app/flo-backend/api/responses"
	"github.com/flo-app/flo-backend/api/validators"
	"github.com/flo-app/flo-backend/internal/users"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/flo-app/flo-backend/pkg/logger"
	"github.com/flo-app/flo-backend/pkg/types"
	"github.com/google/uuid"
)

func UsersMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UsersUpdate applies a partial profile update to the caller's own account.
func UsersUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, err := selfTarget(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.UpdateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), targetID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UsersDeactivate soft-deletes the caller's own account.
func UsersDeactivate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, err := selfTarget(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), targetID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.MessageResponse{Message: users.DeactivatedMessage})
	}
}

func selfTarget(r *http.Request) (uuid.UUID, error) {
	callerID, err := currentUserID(r)
	if err != nil {
		return uuid.Nil, err
	}
	targetID, err := uuidParam(r, "id")
	if err != nil {
		return uuid.Nil, err
	}
	if targetID != callerID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another user's account")
	}
	return targetID, nil
}

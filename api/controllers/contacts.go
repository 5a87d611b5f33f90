package controllers

import (
	"net/http"

	"github.com/flo-app/flo-backend/api/responses"
	"github.com/flo-app/flo-backend/internal/contacts"
)

func ContactsDirectory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, contacts.NewDirectory())
	}
}

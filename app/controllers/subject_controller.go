package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leykun-gizaw/temar-sub000/app/dto"
	"github.com/leykun-gizaw/temar-sub000/app/middleware"
	"github.com/leykun-gizaw/temar-sub000/app/services"
)

type SubjectController struct{ Subjects *services.SubjectService }

func NewSubjectController(subjects *services.SubjectService) *SubjectController {
	return &SubjectController{Subjects: subjects}
}

func (c *SubjectController) Handle(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req dto.CreateSubjectRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		subject, err := c.Subjects.Create(r.Context(), claims.UserID, req.Name, req.Description)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(subject)
	case http.MethodGet:
		subjects, err := c.Subjects.List(claims.UserID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(subjects)
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := c.Subjects.Delete(r.Context(), claims.UserID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, services.ErrNotOwner):
		w.WriteHeader(http.StatusForbidden)
	case errors.Is(err, services.ErrNotLinked):
		w.WriteHeader(http.StatusPreconditionFailed)
	default:
		w.WriteHeader(http.StatusBadGateway)
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

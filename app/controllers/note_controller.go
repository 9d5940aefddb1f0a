package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/leykun-gizaw/temar-sub000/app/dto"
	"github.com/leykun-gizaw/temar-sub000/app/middleware"
	"github.com/leykun-gizaw/temar-sub000/app/services"
)

type NoteController struct{ Notes *services.NoteService }

func NewNoteController(notes *services.NoteService) *NoteController {
	return &NoteController{Notes: notes}
}

func (c *NoteController) Handle(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req dto.CreateNoteRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.TopicID == "" || req.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		note, err := c.Notes.Create(r.Context(), claims.UserID, req.TopicID, req.Name, req.Description)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(note)
	case http.MethodGet:
		if id := r.URL.Query().Get("id"); id != "" {
			note, err := c.Notes.Get(claims.UserID, id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			_ = json.NewEncoder(w).Encode(note)
			return
		}
		topicID := r.URL.Query().Get("topic_id")
		if topicID == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		notes, err := c.Notes.List(claims.UserID, topicID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(notes)
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := c.Notes.Delete(r.Context(), claims.UserID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/leykun-gizaw/temar-sub000/app/dto"
	"github.com/leykun-gizaw/temar-sub000/app/middleware"
	"github.com/leykun-gizaw/temar-sub000/app/services"
)

type TopicController struct{ Topics *services.TopicService }

func NewTopicController(topics *services.TopicService) *TopicController {
	return &TopicController{Topics: topics}
}

func (c *TopicController) Handle(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req dto.CreateTopicRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.SubjectID == "" || req.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		topic, err := c.Topics.Create(r.Context(), claims.UserID, req.SubjectID, req.Name, req.Description)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(topic)
	case http.MethodGet:
		subjectID := r.URL.Query().Get("subject_id")
		if subjectID == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		topics, err := c.Topics.List(claims.UserID, subjectID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(topics)
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := c.Topics.Delete(r.Context(), claims.UserID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

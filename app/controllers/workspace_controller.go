package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/leykun-gizaw/temar-sub000/app/dto"
	"github.com/leykun-gizaw/temar-sub000/app/middleware"
	"github.com/leykun-gizaw/temar-sub000/app/services"
)

type WorkspaceController struct{ Users *services.UserService }

func NewWorkspaceController(users *services.UserService) *WorkspaceController {
	return &WorkspaceController{Users: users}
}

// Link connects the caller's Notion workspace: stores the workspace id,
// root page id and integration token, and ensures the Subjects database
// exists under the root page.
func (c *WorkspaceController) Link(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var req dto.LinkWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	user, err := c.Users.LinkWorkspace(r.Context(), claims.UserID, req.WorkspaceID, req.RootPageID, req.Token)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"workspace_id":         user.WorkspaceID,
		"root_page_id":         user.RootPageID,
		"subjects_database_id": user.SubjectsDatabaseID,
	})
}

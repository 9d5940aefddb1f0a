package router

import (
	"net/http"

	"github.com/leykun-gizaw/temar-sub000/app/controllers"
	"github.com/leykun-gizaw/temar-sub000/app/middleware"
)

func NewRouter(httpCtrl *controllers.HTTPController, authCtrl *controllers.AuthController, adminCtrl *controllers.AdminController, webhookCtrl *controllers.WebhookController, workspaceCtrl *controllers.WorkspaceController, subjectCtrl *controllers.SubjectController, topicCtrl *controllers.TopicController, noteCtrl *controllers.NoteController, mw *middleware.Auth) http.Handler {
	mux := http.NewServeMux()
	// public
	mux.HandleFunc("/ping", httpCtrl.Ping)
	mux.HandleFunc("/login", authCtrl.Login)
	mux.HandleFunc("/webhook/notion", webhookCtrl.Notion)

	// admin-only endpoints
	mux.Handle("/admin/users", mw.RequireAdmin(http.HandlerFunc(adminCtrl.CreateUser)))

	// authenticated hierarchy endpoints
	mux.Handle("/workspace/link", mw.RequireAuth(http.HandlerFunc(workspaceCtrl.Link)))
	mux.Handle("/subjects", mw.RequireAuth(http.HandlerFunc(subjectCtrl.Handle)))
	mux.Handle("/topics", mw.RequireAuth(http.HandlerFunc(topicCtrl.Handle)))
	mux.Handle("/notes", mw.RequireAuth(http.HandlerFunc(noteCtrl.Handle)))

	return mux
}

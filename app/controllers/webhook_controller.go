package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/leykun-gizaw/temar-sub000/app/dto"
	"github.com/leykun-gizaw/temar-sub000/app/queue"
	"github.com/leykun-gizaw/temar-sub000/global"
)

// WebhookController is the Notion ingress. It acknowledges deliveries
// immediately and hands processing to the reconcile workers through the
// bounded queue.
type WebhookController struct{ Queue *queue.Queue }

func NewWebhookController(q *queue.Queue) *WebhookController {
	return &WebhookController{Queue: q}
}

func (c *WebhookController) Notion(w http.ResponseWriter, r *http.Request) {
	var ev dto.NotionEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// One-time subscription handshake: echo the token, nothing to process.
	if ev.VerificationToken != "" {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"verification_token": ev.VerificationToken})
		return
	}

	if ev.Type != dto.EventPageCreated || ev.Entity.ID == "" {
		// other event kinds are acknowledged and ignored
		w.WriteHeader(http.StatusOK)
		return
	}

	if !c.Queue.TryEnqueue(ev) {
		global.Logger.Error().Str("event_id", ev.ID).Str("page_id", ev.Entity.ID).Int("depth", c.Queue.Depth()).Msg("reconcile queue full, delivery rejected")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

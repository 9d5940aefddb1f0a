package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leykun-gizaw/temar-sub000/app/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postWebhook(t *testing.T, c *WebhookController, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/notion", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c.Notion(rec, req)
	return rec
}

func TestWebhookVerificationHandshake(t *testing.T) {
	c := NewWebhookController(queue.New(4))
	rec := postWebhook(t, c, `{"verification_token":"tok-123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tok-123", resp["verification_token"])
	assert.Equal(t, 0, c.Queue.Depth())
}

func TestWebhookEnqueuesPageCreated(t *testing.T) {
	c := NewWebhookController(queue.New(4))
	rec := postWebhook(t, c, `{"id":"ev-1","type":"page.created","workspace_id":"ws-1","entity":{"id":"p-1","type":"page"}}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, c.Queue.Depth())
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	c := NewWebhookController(queue.New(4))
	for _, body := range []string{
		`{"id":"ev-1","type":"page.deleted","workspace_id":"ws-1","entity":{"id":"p-1","type":"page"}}`,
		`{"id":"ev-2","type":"page.created","workspace_id":"ws-1","entity":{"id":"","type":"page"}}`,
	} {
		rec := postWebhook(t, c, body)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 0, c.Queue.Depth())
}

func TestWebhookRejectsWhenQueueFull(t *testing.T) {
	c := NewWebhookController(queue.New(1))
	body := `{"type":"page.created","workspace_id":"ws-1","entity":{"id":"p-1","type":"page"}}`

	assert.Equal(t, http.StatusAccepted, postWebhook(t, c, body).Code)
	assert.Equal(t, http.StatusServiceUnavailable, postWebhook(t, c, body).Code)
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	c := NewWebhookController(queue.New(4))
	rec := postWebhook(t, c, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

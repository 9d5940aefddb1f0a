package dto

// NotionEvent is the webhook delivery payload. Subscription setup sends a
// one-time verification_token; afterwards events carry type + entity.
type NotionEvent struct {
	ID                string      `json:"id,omitempty"`
	Type              string      `json:"type,omitempty"`
	WorkspaceID       string      `json:"workspace_id,omitempty"`
	VerificationToken string      `json:"verification_token,omitempty"`
	Entity            EventEntity `json:"entity,omitempty"`
}

type EventEntity struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

const EventPageCreated = "page.created"

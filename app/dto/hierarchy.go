package dto

type LinkWorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id"`
	RootPageID  string `json:"root_page_id"`
	Token       string `json:"token"`
}

type CreateSubjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateTopicRequest struct {
	SubjectID   string `json:"subject_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateNoteRequest struct {
	TopicID     string `json:"topic_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

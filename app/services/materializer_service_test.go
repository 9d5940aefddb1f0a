package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/leykun-gizaw/temar-sub000/app/models"
	"github.com/leykun-gizaw/temar-sub000/app/notion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:                   1,
		Username:             "leykun",
		RootPageID:           "root-1",
		SubjectsDatabaseID:   "subjects-db",
		SubjectsDataSourceID: "subjects-ds",
		NotionToken:          "secret",
	}
}

func TestMaterializeSubjectPlan(t *testing.T) {
	api := newFakeAPI()
	m := NewMaterializerService()
	user := testUser()
	page := api.addPage("subj-9", notion.Parent{Kind: notion.ParentDataSource, DataSourceID: "subjects-ds", DatabaseID: "subjects-db"}, "Physics", "Mechanics and optics")

	plan, err := m.MaterializeSubject(context.Background(), api, user, page)
	require.NoError(t, err)

	assert.Equal(t, 3, plan.Size())
	require.NotNil(t, plan.Subject)
	require.NotNil(t, plan.Topic)
	require.NotNil(t, plan.Note)

	assert.Equal(t, "subj-9", plan.Subject.ID)
	assert.Equal(t, uint(1), plan.Subject.UserID)
	assert.Equal(t, "subjects-db", plan.Subject.DatabaseID)
	assert.Equal(t, "root-1", plan.Subject.RootPageID)
	assert.Equal(t, "Physics", plan.Subject.Name)

	// seed topic lives in the Topics database created under the subject
	assert.Equal(t, "subj-9", plan.Topic.SubjectID)
	assert.NotEmpty(t, plan.Topic.DatabaseID)
	assert.NotEmpty(t, plan.Topic.DataSourceID)
	assert.Equal(t, seedTopicName, plan.Topic.Name)

	assert.Equal(t, plan.Topic.ID, plan.Note.TopicID)
	assert.Equal(t, seedNoteName, plan.Note.Name)
}

func TestMaterializeSubjectNameReadback(t *testing.T) {
	api := newFakeAPI()
	m := NewMaterializerService()
	page := api.addPage("subj-1", notion.Parent{Kind: notion.ParentPage, PageID: "root-1"}, "Biology", "")

	plan, err := m.MaterializeSubject(context.Background(), api, testUser(), page)
	require.NoError(t, err)

	// seed page names come from the creation responses, not the inputs
	created := api.pages[plan.Topic.ID]
	require.NotNil(t, created)
	assert.Equal(t, created.Title(), plan.Topic.Name)

	// direct child of the root page: database ids fall back to the
	// user's Subjects database
	assert.Equal(t, "subjects-db", plan.Subject.DatabaseID)
	assert.Equal(t, "subjects-ds", plan.Subject.DataSourceID)
}

func TestMaterializeTopicPlan(t *testing.T) {
	api := newFakeAPI()
	m := NewMaterializerService()
	page := api.addPage("topic-9", notion.Parent{Kind: notion.ParentDataSource, DataSourceID: "topics-ds", DatabaseID: "topics-db"}, "Optics", "")

	plan, err := m.MaterializeTopic(context.Background(), api, testUser(), "subj-1", page)
	require.NoError(t, err)

	assert.Equal(t, 2, plan.Size())
	assert.Nil(t, plan.Subject)
	assert.Equal(t, "topic-9", plan.Topic.ID)
	assert.Equal(t, "subj-1", plan.Topic.SubjectID)
	assert.Equal(t, "topics-db", plan.Topic.DatabaseID)
	assert.Equal(t, plan.Topic.ID, plan.Note.TopicID)
}

func TestMaterializeNotePlan(t *testing.T) {
	api := newFakeAPI()
	m := NewMaterializerService()
	page := api.addPage("note-9", notion.Parent{Kind: notion.ParentDataSource, DataSourceID: "notes-ds", DatabaseID: "notes-db"}, "Lens formula", "")
	api.children["note-9"] = []json.RawMessage{
		json.RawMessage(`{"type":"paragraph","paragraph":{"rich_text":[]}}`),
	}

	plan, err := m.MaterializeNote(context.Background(), api, testUser(), "topic-1", page)
	require.NoError(t, err)

	assert.Equal(t, 1, plan.Size())
	require.NotNil(t, plan.Note)
	assert.Equal(t, "note-9", plan.Note.ID)
	assert.Equal(t, "topic-1", plan.Note.TopicID)
	assert.Contains(t, plan.Note.Content, "paragraph")
}

func TestMaterializeNoteEmptyContent(t *testing.T) {
	api := newFakeAPI()
	m := NewMaterializerService()
	page := api.addPage("note-1", notion.Parent{Kind: notion.ParentDataSource, DataSourceID: "notes-ds"}, "Empty", "")

	plan, err := m.MaterializeNote(context.Background(), api, testUser(), "topic-1", page)
	require.NoError(t, err)
	assert.Equal(t, "[]", plan.Note.Content)
}

func TestMaterializeSubjectAbortsOnFailure(t *testing.T) {
	api := newFakeAPI()
	api.failOn = "CreateDatabase"
	m := NewMaterializerService()
	page := api.addPage("subj-1", notion.Parent{Kind: notion.ParentPage, PageID: "root-1"}, "Physics", "")

	plan, err := m.MaterializeSubject(context.Background(), api, testUser(), page)
	require.Error(t, err)
	assert.Equal(t, 0, plan.Size())
}

func TestMaterializeUnclassifiableLevel(t *testing.T) {
	api := newFakeAPI()
	m := NewMaterializerService()
	page := api.addPage("p-1", notion.Parent{Kind: notion.ParentPage, PageID: "x"}, "Stray", "")

	_, err := m.Materialize(context.Background(), api, testUser(), Classification{Level: LevelNone}, page)
	require.Error(t, err)
}

package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leykun-gizaw/temar-sub000/app/models"
	"github.com/leykun-gizaw/temar-sub000/app/notion"
	"github.com/leykun-gizaw/temar-sub000/app/repo"
)

const (
	topicsDatabaseTitle = "Topics"
	notesDatabaseTitle  = "Notes"
	seedTopicName       = "General"
	seedTopicDesc       = "Starter topic"
	seedNoteName        = "First note"
	subjectIcon         = "\U0001F4DA"
)

// MaterializerService creates the descendant scaffolding a classified
// page is missing and assembles the rows to persist. All Notion calls
// are sequential; any failure aborts the whole materialization with no
// compensating deletes, leaving already-created pages for manual replay.
type MaterializerService struct{}

func NewMaterializerService() *MaterializerService { return &MaterializerService{} }

// Materialize dispatches on the classification level. Display fields of
// every created page are read back from the creation responses rather
// than assumed equal to input, since Notion may normalize them.
func (m *MaterializerService) Materialize(ctx context.Context, api notion.API, user *models.User, cls Classification, page *notion.Page) (repo.PersistencePlan, error) {
	switch cls.Level {
	case LevelSubject:
		return m.MaterializeSubject(ctx, api, user, page)
	case LevelTopic:
		return m.MaterializeTopic(ctx, api, user, cls.SubjectID, page)
	case LevelNote:
		return m.MaterializeNote(ctx, api, user, cls.TopicID, page)
	default:
		return repo.PersistencePlan{}, fmt.Errorf("materialize: level %s is not materializable", cls.Level)
	}
}

// MaterializeSubject builds the two missing levels beneath a new subject
// page: a Topics database with a seed topic, and beneath that seed a
// Notes database with a seed note.
func (m *MaterializerService) MaterializeSubject(ctx context.Context, api notion.API, user *models.User, page *notion.Page) (repo.PersistencePlan, error) {
	if err := api.UpdatePageIcon(ctx, page.ID, subjectIcon); err != nil {
		return repo.PersistencePlan{}, fmt.Errorf("set subject icon: %w", err)
	}
	topicsDB, err := api.CreateDatabase(ctx, page.ID, topicsDatabaseTitle)
	if err != nil {
		return repo.PersistencePlan{}, fmt.Errorf("create topics database: %w", err)
	}
	seedTopic, err := api.CreatePage(ctx, topicsDB.PrimaryDataSource(), seedTopicName, seedTopicDesc)
	if err != nil {
		return repo.PersistencePlan{}, fmt.Errorf("create seed topic: %w", err)
	}
	notesDB, err := api.CreateDatabase(ctx, seedTopic.ID, notesDatabaseTitle)
	if err != nil {
		return repo.PersistencePlan{}, fmt.Errorf("create notes database: %w", err)
	}
	seedNote, err := api.CreatePage(ctx, notesDB.PrimaryDataSource(), seedNoteName, "")
	if err != nil {
		return repo.PersistencePlan{}, fmt.Errorf("create seed note: %w", err)
	}

	subject := m.subjectRow(user, page)
	topic := m.topicRow(user, subject.ID, topicsDB, seedTopic)
	note := m.noteRow(user, topic.ID, notesDB, seedNote, "")
	return repo.PersistencePlan{Subject: subject, Topic: topic, Note: note}, nil
}

// MaterializeTopic builds the one missing level beneath a new topic page.
func (m *MaterializerService) MaterializeTopic(ctx context.Context, api notion.API, user *models.User, subjectID string, page *notion.Page) (repo.PersistencePlan, error) {
	notesDB, err := api.CreateDatabase(ctx, page.ID, notesDatabaseTitle)
	if err != nil {
		return repo.PersistencePlan{}, fmt.Errorf("create notes database: %w", err)
	}
	seedNote, err := api.CreatePage(ctx, notesDB.PrimaryDataSource(), seedNoteName, "")
	if err != nil {
		return repo.PersistencePlan{}, fmt.Errorf("create seed note: %w", err)
	}

	topic := &models.Topic{
		ID:           page.ID,
		UserID:       user.ID,
		SubjectID:    subjectID,
		DatabaseID:   page.Parent.DatabaseID,
		DataSourceID: page.Parent.DataSourceID,
		Name:         page.Title(),
		Description:  page.Description(),
	}
	note := m.noteRow(user, topic.ID, notesDB, seedNote, "")
	return repo.PersistencePlan{Topic: topic, Note: note}, nil
}

// MaterializeNote needs no descendant structure; it fetches the page's
// block children so the cached content is populated at creation time.
func (m *MaterializerService) MaterializeNote(ctx context.Context, api notion.API, user *models.User, topicID string, page *notion.Page) (repo.PersistencePlan, error) {
	blocks, err := api.GetBlockChildren(ctx, page.ID)
	if err != nil {
		return repo.PersistencePlan{}, fmt.Errorf("fetch note content: %w", err)
	}
	content, err := encodeBlocks(blocks)
	if err != nil {
		return repo.PersistencePlan{}, err
	}
	note := &models.Note{
		ID:           page.ID,
		UserID:       user.ID,
		TopicID:      topicID,
		DatabaseID:   page.Parent.DatabaseID,
		DataSourceID: page.Parent.DataSourceID,
		Name:         page.Title(),
		Content:      content,
	}
	return repo.PersistencePlan{Note: note}, nil
}

func (m *MaterializerService) subjectRow(user *models.User, page *notion.Page) *models.Subject {
	subject := &models.Subject{
		ID:          page.ID,
		UserID:      user.ID,
		RootPageID:  user.RootPageID,
		Name:        page.Title(),
		Description: page.Description(),
	}
	// Pages typed directly under the root page carry a page parent and
	// no database; fall back to the user's Subjects database ids then.
	if page.Parent.Kind == notion.ParentDataSource || page.Parent.Kind == notion.ParentDatabase {
		subject.DatabaseID = page.Parent.DatabaseID
		subject.DataSourceID = page.Parent.DataSourceID
	} else {
		subject.DatabaseID = user.SubjectsDatabaseID
		subject.DataSourceID = user.SubjectsDataSourceID
	}
	return subject
}

func (m *MaterializerService) topicRow(user *models.User, subjectID string, db *notion.Database, page *notion.Page) *models.Topic {
	return &models.Topic{
		ID:           page.ID,
		UserID:       user.ID,
		SubjectID:    subjectID,
		DatabaseID:   db.ID,
		DataSourceID: db.PrimaryDataSource(),
		Name:         page.Title(),
		Description:  page.Description(),
	}
}

func (m *MaterializerService) noteRow(user *models.User, topicID string, db *notion.Database, page *notion.Page, content string) *models.Note {
	return &models.Note{
		ID:           page.ID,
		UserID:       user.ID,
		TopicID:      topicID,
		DatabaseID:   db.ID,
		DataSourceID: db.PrimaryDataSource(),
		Name:         page.Title(),
		Content:      content,
	}
}

func encodeBlocks(blocks []json.RawMessage) (string, error) {
	if len(blocks) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(blocks)
	if err != nil {
		return "", fmt.Errorf("encode note content: %w", err)
	}
	return string(data), nil
}

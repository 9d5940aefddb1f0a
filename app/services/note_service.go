package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/leykun-gizaw/temar-sub000/app/models"
	"github.com/leykun-gizaw/temar-sub000/app/notion"
	"github.com/leykun-gizaw/temar-sub000/app/repo"
	"github.com/leykun-gizaw/temar-sub000/global"
)

// ContentGenerator produces seed content for a freshly created note.
// The actual generation pipeline lives outside this service; a nil
// generator leaves the note with its fetched (usually empty) content.
type ContentGenerator interface {
	Generate(ctx context.Context, topicName, noteName string) (string, error)
}

type NoteService struct {
	users        *repo.UserRepository
	mirror       *repo.MirrorRepository
	materializer *MaterializerService
	clients      notion.Factory
	generator    ContentGenerator
}

func NewNoteService(users *repo.UserRepository, mirror *repo.MirrorRepository, materializer *MaterializerService, clients notion.Factory, generator ContentGenerator) *NoteService {
	return &NoteService{users: users, mirror: mirror, materializer: materializer, clients: clients, generator: generator}
}

func (s *NoteService) Create(ctx context.Context, userID uint, topicID, name, description string) (*models.Note, error) {
	topic, err := s.mirror.GetTopic(topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, ErrNotFound
	}
	if topic.UserID != userID {
		return nil, ErrNotOwner
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	dataSourceID, err := s.notesDataSource(topicID)
	if err != nil {
		return nil, err
	}

	api := s.clients(user.NotionToken)
	page, err := api.CreatePage(ctx, dataSourceID, name, description)
	if err != nil {
		return nil, fmt.Errorf("create note page: %w", err)
	}
	plan, err := s.materializer.MaterializeNote(ctx, api, user, topicID, page)
	if err != nil {
		return nil, err
	}
	if s.generator != nil {
		content, err := s.generator.Generate(ctx, topic.Name, plan.Note.Name)
		if err != nil {
			// generation is best-effort; the note still gets created
			global.Logger.Warn().Err(err).Str("note_id", plan.Note.ID).Msg("content generation failed")
		} else if content != "" {
			plan.Note.Content = content
		}
	}
	if err := s.mirror.InsertPlan(plan); err != nil {
		return nil, err
	}
	return plan.Note, nil
}

func (s *NoteService) List(userID uint, topicID string) ([]*models.Note, error) {
	topic, err := s.mirror.GetTopic(topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, ErrNotFound
	}
	if topic.UserID != userID {
		return nil, ErrNotOwner
	}
	return s.mirror.ListNotesByTopic(topicID)
}

func (s *NoteService) Get(userID uint, noteID string) (*models.Note, error) {
	note, err := s.mirror.GetNote(noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNotFound
	}
	if note.UserID != userID {
		return nil, ErrNotOwner
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID uint, noteID string) error {
	note, err := s.mirror.GetNote(noteID)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNotFound
	}
	if note.UserID != userID {
		return ErrNotOwner
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	api := s.clients(user.NotionToken)
	if err := api.ArchivePage(ctx, noteID); err != nil {
		return fmt.Errorf("archive note page: %w", err)
	}
	return s.mirror.DeleteNote(noteID)
}

func (s *NoteService) notesDataSource(topicID string) (string, error) {
	notes, err := s.mirror.ListNotesByTopic(topicID)
	if err != nil {
		return "", err
	}
	for _, n := range notes {
		if n.DataSourceID != "" {
			return n.DataSourceID, nil
		}
	}
	return "", errors.New("topic has no notes database on record")
}

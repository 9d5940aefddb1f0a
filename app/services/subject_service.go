package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/leykun-gizaw/temar-sub000/app/models"
	"github.com/leykun-gizaw/temar-sub000/app/notion"
	"github.com/leykun-gizaw/temar-sub000/app/repo"
)

var (
	ErrNotLinked = errors.New("workspace is not linked")
	ErrNotOwner  = errors.New("entity belongs to another user")
	ErrNotFound  = errors.New("entity not found")
)

// SubjectService handles app-initiated subject creation: the Notion
// structure is created first, then the same persistence plan the webhook
// path produces is written locally.
type SubjectService struct {
	users        *repo.UserRepository
	mirror       *repo.MirrorRepository
	materializer *MaterializerService
	clients      notion.Factory
}

func NewSubjectService(users *repo.UserRepository, mirror *repo.MirrorRepository, materializer *MaterializerService, clients notion.Factory) *SubjectService {
	return &SubjectService{users: users, mirror: mirror, materializer: materializer, clients: clients}
}

func (s *SubjectService) Create(ctx context.Context, userID uint, name, description string) (*models.Subject, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.Linked() || user.SubjectsDataSourceID == "" {
		return nil, ErrNotLinked
	}

	api := s.clients(user.NotionToken)
	page, err := api.CreatePage(ctx, user.SubjectsDataSourceID, name, description)
	if err != nil {
		return nil, fmt.Errorf("create subject page: %w", err)
	}
	plan, err := s.materializer.MaterializeSubject(ctx, api, user, page)
	if err != nil {
		return nil, err
	}
	if err := s.mirror.InsertPlan(plan); err != nil {
		return nil, err
	}
	return plan.Subject, nil
}

func (s *SubjectService) List(userID uint) ([]*models.Subject, error) {
	return s.mirror.ListSubjectsByUser(userID)
}

// Delete archives the Notion page and removes the subject and its
// descendants from the mirror.
func (s *SubjectService) Delete(ctx context.Context, userID uint, subjectID string) error {
	subject, err := s.mirror.GetSubject(subjectID)
	if err != nil {
		return err
	}
	if subject == nil {
		return ErrNotFound
	}
	if subject.UserID != userID {
		return ErrNotOwner
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	api := s.clients(user.NotionToken)
	if err := api.ArchivePage(ctx, subjectID); err != nil {
		return fmt.Errorf("archive subject page: %w", err)
	}
	return s.mirror.DeleteSubject(subjectID)
}

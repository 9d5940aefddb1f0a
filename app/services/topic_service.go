package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/leykun-gizaw/temar-sub000/app/models"
	"github.com/leykun-gizaw/temar-sub000/app/notion"
	"github.com/leykun-gizaw/temar-sub000/app/repo"
)

type TopicService struct {
	users        *repo.UserRepository
	mirror       *repo.MirrorRepository
	materializer *MaterializerService
	clients      notion.Factory
}

func NewTopicService(users *repo.UserRepository, mirror *repo.MirrorRepository, materializer *MaterializerService, clients notion.Factory) *TopicService {
	return &TopicService{users: users, mirror: mirror, materializer: materializer, clients: clients}
}

func (s *TopicService) Create(ctx context.Context, userID uint, subjectID, name, description string) (*models.Topic, error) {
	subject, err := s.mirror.GetSubject(subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, ErrNotFound
	}
	if subject.UserID != userID {
		return nil, ErrNotOwner
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	// Every subject cascade seeds one topic, so a sibling always exists
	// to read the Topics data source from.
	dataSourceID, err := s.topicsDataSource(subjectID)
	if err != nil {
		return nil, err
	}

	api := s.clients(user.NotionToken)
	page, err := api.CreatePage(ctx, dataSourceID, name, description)
	if err != nil {
		return nil, fmt.Errorf("create topic page: %w", err)
	}
	plan, err := s.materializer.MaterializeTopic(ctx, api, user, subjectID, page)
	if err != nil {
		return nil, err
	}
	if err := s.mirror.InsertPlan(plan); err != nil {
		return nil, err
	}
	return plan.Topic, nil
}

func (s *TopicService) List(userID uint, subjectID string) ([]*models.Topic, error) {
	subject, err := s.mirror.GetSubject(subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, ErrNotFound
	}
	if subject.UserID != userID {
		return nil, ErrNotOwner
	}
	return s.mirror.ListTopicsBySubject(subjectID)
}

func (s *TopicService) Delete(ctx context.Context, userID uint, topicID string) error {
	topic, err := s.mirror.GetTopic(topicID)
	if err != nil {
		return err
	}
	if topic == nil {
		return ErrNotFound
	}
	if topic.UserID != userID {
		return ErrNotOwner
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	api := s.clients(user.NotionToken)
	if err := api.ArchivePage(ctx, topicID); err != nil {
		return fmt.Errorf("archive topic page: %w", err)
	}
	return s.mirror.DeleteTopic(topicID)
}

func (s *TopicService) topicsDataSource(subjectID string) (string, error) {
	topics, err := s.mirror.ListTopicsBySubject(subjectID)
	if err != nil {
		return "", err
	}
	for _, t := range topics {
		if t.DataSourceID != "" {
			return t.DataSourceID, nil
		}
	}
	return "", errors.New("subject has no topics database on record")
}

package services

import (
	"github.com/leykun-gizaw/temar-sub000/app/repo"
)

// Level is the hierarchy level a newly created page belongs to, derived
// from what its parent page is.
type Level int

const (
	LevelNone Level = iota
	LevelSubject
	LevelTopic
	LevelNote
)

func (l Level) String() string {
	switch l {
	case LevelSubject:
		return "subject"
	case LevelTopic:
		return "topic"
	case LevelNote:
		return "note"
	default:
		return "none"
	}
}

// Classification tags the outcome of classifying a parent page id.
// SubjectID is set for LevelTopic and LevelNote, TopicID for LevelNote.
type Classification struct {
	Level     Level
	UserID    uint
	SubjectID string
	TopicID   string
}

type ClassifierService struct {
	users  *repo.UserRepository
	mirror *repo.MirrorRepository
}

func NewClassifierService(users *repo.UserRepository, mirror *repo.MirrorRepository) *ClassifierService {
	return &ClassifierService{users: users, mirror: mirror}
}

// Classify determines which level a page created under parentPageID
// belongs to. Checks run in fixed order, root page then subject then
// topic, first match wins; the three are mutually exclusive by
// construction, so the order only mirrors hierarchy depth.
func (s *ClassifierService) Classify(parentPageID string) (Classification, error) {
	owner, err := s.users.FindByRootPageID(parentPageID)
	if err != nil {
		return Classification{}, err
	}
	if owner != nil {
		return Classification{Level: LevelSubject, UserID: owner.ID}, nil
	}

	subject, err := s.mirror.GetSubject(parentPageID)
	if err != nil {
		return Classification{}, err
	}
	if subject != nil {
		return Classification{Level: LevelTopic, UserID: subject.UserID, SubjectID: subject.ID}, nil
	}

	topic, err := s.mirror.GetTopic(parentPageID)
	if err != nil {
		return Classification{}, err
	}
	if topic != nil {
		return Classification{Level: LevelNote, UserID: topic.UserID, SubjectID: topic.SubjectID, TopicID: topic.ID}, nil
	}

	return Classification{Level: LevelNone}, nil
}

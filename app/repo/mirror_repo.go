package repo

import (
	"errors"
	"fmt"

	"github.com/leykun-gizaw/temar-sub000/app/models"

	"gorm.io/gorm"
)

// PersistencePlan is the set of mirror rows produced by one cascade.
// Nil members are skipped; the whole plan is written in one transaction.
type PersistencePlan struct {
	Subject *models.Subject
	Topic   *models.Topic
	Note    *models.Note
}

// Size returns how many rows the plan will insert.
func (p PersistencePlan) Size() int {
	n := 0
	if p.Subject != nil {
		n++
	}
	if p.Topic != nil {
		n++
	}
	if p.Note != nil {
		n++
	}
	return n
}

type MirrorRepository struct{ db *gorm.DB }

func NewMirrorRepository(db *gorm.DB) *MirrorRepository { return &MirrorRepository{db: db} }

// Exists reports whether pageID is already mirrored at any level. Used as
// the re-entry guard: materialization writes trigger Notion's own
// webhooks, so every run must short-circuit on pages it has seen.
func (r *MirrorRepository) Exists(pageID string) (bool, error) {
	if pageID == "" {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&models.Subject{}).Where("id = ?", pageID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Model(&models.Topic{}).Where("id = ?", pageID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Model(&models.Note{}).Where("id = ?", pageID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MirrorRepository) GetSubject(id string) (*models.Subject, error) {
	var s models.Subject
	err := r.db.Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MirrorRepository) GetTopic(id string) (*models.Topic, error) {
	var t models.Topic
	err := r.db.Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *MirrorRepository) GetNote(id string) (*models.Note, error) {
	var n models.Note
	err := r.db.Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *MirrorRepository) ListSubjectsByUser(userID uint) ([]*models.Subject, error) {
	var subjects []*models.Subject
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&subjects).Error
	return subjects, err
}

func (r *MirrorRepository) ListTopicsBySubject(subjectID string) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := r.db.Where("subject_id = ?", subjectID).Order("created_at DESC").Find(&topics).Error
	return topics, err
}

func (r *MirrorRepository) ListNotesByTopic(topicID string) ([]*models.Note, error) {
	var notes []*models.Note
	err := r.db.Where("topic_id = ?", topicID).Order("created_at DESC").Find(&notes).Error
	return notes, err
}

// InsertPlan writes every row of the plan in a single transaction so a
// cascade is either fully mirrored or not at all.
func (r *MirrorRepository) InsertPlan(plan PersistencePlan) error {
	if plan.Size() == 0 {
		return fmt.Errorf("empty persistence plan")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if plan.Subject != nil {
			if err := tx.Create(plan.Subject).Error; err != nil {
				return err
			}
		}
		if plan.Topic != nil {
			if plan.Subject == nil {
				// single-level insert: the parent must already be mirrored
				var count int64
				if err := tx.Model(&models.Subject{}).Where("id = ?", plan.Topic.SubjectID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return fmt.Errorf("topic %s: parent subject %s is not mirrored", plan.Topic.ID, plan.Topic.SubjectID)
				}
			}
			if err := tx.Create(plan.Topic).Error; err != nil {
				return err
			}
		}
		if plan.Note != nil {
			if plan.Topic == nil {
				var count int64
				if err := tx.Model(&models.Topic{}).Where("id = ?", plan.Note.TopicID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return fmt.Errorf("note %s: parent topic %s is not mirrored", plan.Note.ID, plan.Note.TopicID)
				}
			}
			if err := tx.Create(plan.Note).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSubject removes a subject and its descendants. Deletes are
// explicit rather than relying on FK cascade so the behavior matches on
// every driver.
func (r *MirrorRepository) DeleteSubject(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		topicIDs := tx.Model(&models.Topic{}).Select("id").Where("subject_id = ?", id)
		if err := tx.Where("topic_id IN (?)", topicIDs).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", id).Delete(&models.Topic{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Subject{}).Error
	})
}

func (r *MirrorRepository) DeleteTopic(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Topic{}).Error
	})
}

func (r *MirrorRepository) DeleteNote(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Note{}).Error
}

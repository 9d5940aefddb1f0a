package repo

import (
	"errors"

	"github.com/leykun-gizaw/temar-sub000/app/models"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) CountByUsername(username string) (int64, error) {
	var count int64
	return count, r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
}

func (r *UserRepository) Create(u *models.User) error { return r.db.Create(u).Error }

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByWorkspaceID resolves the owner of a Notion workspace. A missing
// row is a normal outcome (webhook for an unlinked workspace) and is
// reported as nil, nil.
func (r *UserRepository) FindByWorkspaceID(workspaceID string) (*models.User, error) {
	if workspaceID == "" {
		return nil, nil
	}
	var u models.User
	err := r.db.Where("workspace_id = ?", workspaceID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByRootPageID resolves a page id to the user whose hierarchy it
// anchors; nil, nil when no user claims it.
func (r *UserRepository) FindByRootPageID(pageID string) (*models.User, error) {
	if pageID == "" {
		return nil, nil
	}
	var u models.User
	err := r.db.Where("root_page_id = ?", pageID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) LinkWorkspace(userID uint, workspaceID, rootPageID, token string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"workspace_id": workspaceID,
		"root_page_id": rootPageID,
		"notion_token": token,
	}).Error
}

func (r *UserRepository) SetSubjectsDatabase(userID uint, databaseID, dataSourceID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"subjects_database_id":    databaseID,
		"subjects_data_source_id": dataSourceID,
	}).Error
}

package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:32;not null;default:user"`
	// Workspace link, empty until the user connects their Notion
	// workspace. RootPageID anchors the top of the user's hierarchy.
	// A workspace and a root page belong to at most one user; unlinked
	// rows store NULL so the unique indexes ignore them.
	WorkspaceID          string `gorm:"size:64;uniqueIndex;default:null"`
	RootPageID           string `gorm:"size:64;uniqueIndex;default:null"`
	SubjectsDatabaseID   string `gorm:"size:64"`
	SubjectsDataSourceID string `gorm:"size:64"`
	NotionToken          string `gorm:"size:255"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Linked reports whether the user has completed workspace onboarding.
func (u *User) Linked() bool {
	return u.WorkspaceID != "" && u.RootPageID != "" && u.NotionToken != ""
}

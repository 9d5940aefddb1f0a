package models

import "time"

// Subject is the top hierarchy level, mirrored from a Notion page living
// in the user's Subjects database under their root page.
type Subject struct {
	ID           string    `gorm:"primaryKey;size:64"`
	UserID       uint      `gorm:"index;not null"`
	DatabaseID   string    `gorm:"size:64;index"`
	DataSourceID string    `gorm:"size:64"`
	RootPageID   string    `gorm:"size:64;index"`
	Name         string    `gorm:"size:255"`
	Description  string    `gorm:"size:1024"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Topic is the mid level, one row per page in a subject's Topics database.
type Topic struct {
	ID           string    `gorm:"primaryKey;size:64"`
	UserID       uint      `gorm:"index;not null"`
	SubjectID    string    `gorm:"size:64;index;not null"`
	DatabaseID   string    `gorm:"size:64;index"`
	DataSourceID string    `gorm:"size:64"`
	Name         string    `gorm:"size:255"`
	Description  string    `gorm:"size:1024"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	Subject      *Subject  `gorm:"foreignKey:SubjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// Note is the leaf level and the only kind carrying content: a cached
// JSON snapshot of the page's block children.
type Note struct {
	ID           string    `gorm:"primaryKey;size:64"`
	UserID       uint      `gorm:"index;not null"`
	TopicID      string    `gorm:"size:64;index;not null"`
	DatabaseID   string    `gorm:"size:64;index"`
	DataSourceID string    `gorm:"size:64"`
	Name         string    `gorm:"size:255"`
	Content      string    `gorm:"type:longtext"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	Topic        *Topic    `gorm:"foreignKey:TopicID;references:ID;constraint:OnDelete:CASCADE"`
}

package services

import (
	"testing"

	"github.com/leykun-gizaw/temar-sub000/app/models"
	"github.com/leykun-gizaw/temar-sub000/app/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	gdb := newTestDB(t)
	users := repo.NewUserRepository(gdb)
	mirror := repo.NewMirrorRepository(gdb)
	classifier := NewClassifierService(users, mirror)

	require.NoError(t, users.Create(&models.User{Username: "leykun", PasswordHash: "x", Role: "user", WorkspaceID: "ws-1", RootPageID: "root-1"}))
	require.NoError(t, gdb.Create(&models.Subject{ID: "subj-1", UserID: 1, Name: "Physics"}).Error)
	require.NoError(t, gdb.Create(&models.Topic{ID: "topic-1", UserID: 1, SubjectID: "subj-1", Name: "Optics"}).Error)

	cases := []struct {
		name      string
		parentID  string
		level     Level
		subjectID string
		topicID   string
	}{
		{name: "root page yields subject", parentID: "root-1", level: LevelSubject},
		{name: "subject page yields topic", parentID: "subj-1", level: LevelTopic, subjectID: "subj-1"},
		{name: "topic page yields note", parentID: "topic-1", level: LevelNote, subjectID: "subj-1", topicID: "topic-1"},
		{name: "untracked page yields none", parentID: "random-page", level: LevelNone},
		{name: "empty id yields none", parentID: "", level: LevelNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cls, err := classifier.Classify(tc.parentID)
			require.NoError(t, err)
			assert.Equal(t, tc.level, cls.Level)
			assert.Equal(t, tc.subjectID, cls.SubjectID)
			assert.Equal(t, tc.topicID, cls.TopicID)
			if tc.level != LevelNone {
				assert.Equal(t, uint(1), cls.UserID)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	gdb := newTestDB(t)
	users := repo.NewUserRepository(gdb)
	mirror := repo.NewMirrorRepository(gdb)
	classifier := NewClassifierService(users, mirror)

	require.NoError(t, users.Create(&models.User{Username: "a", PasswordHash: "x", RootPageID: "root-1"}))

	first, err := classifier.Classify("root-1")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := classifier.Classify("root-1")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

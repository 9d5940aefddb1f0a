package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/leykun-gizaw/temar-sub000/app/models"
	"github.com/leykun-gizaw/temar-sub000/app/notion"
	"github.com/leykun-gizaw/temar-sub000/app/repo"

	"golang.org/x/crypto/bcrypt"
)

const subjectsDatabaseTitle = "Subjects"

type UserService struct {
	users   *repo.UserRepository
	clients notion.Factory
}

func NewUserService(users *repo.UserRepository, clients notion.Factory) *UserService {
	return &UserService{users: users, clients: clients}
}

func (s *UserService) EnsureAdmin(username, password string) error {
	count, err := s.users.CountByUsername(username)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return s.users.Create(&models.User{Username: username, PasswordHash: string(hash), Role: "admin"})
}

func (s *UserService) CreateUser(username, password, role string) error {
	if role == "" {
		role = "user"
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return s.users.Create(&models.User{Username: username, PasswordHash: string(hash), Role: role})
}

func (s *UserService) ValidateCredentials(username, password string) (*models.User, error) {
	u, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, errors.New("invalid credentials")
	}
	return u, nil
}

// LinkWorkspace stores the user's Notion workspace link and makes sure a
// Subjects database exists under the root page, creating it on first
// link. The root page must be shared with the integration token.
func (s *UserService) LinkWorkspace(ctx context.Context, userID uint, workspaceID, rootPageID, token string) (*models.User, error) {
	if workspaceID == "" || rootPageID == "" || token == "" {
		return nil, errors.New("workspace id, root page id and token are required")
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	api := s.clients(token)
	root, err := api.GetPage(ctx, rootPageID)
	if err != nil {
		return nil, fmt.Errorf("verify root page: %w", err)
	}
	if !root.IsFull() {
		return nil, errors.New("root page id does not resolve to a page")
	}

	if err := s.users.LinkWorkspace(userID, workspaceID, rootPageID, token); err != nil {
		return nil, err
	}

	if user.SubjectsDatabaseID == "" || user.RootPageID != rootPageID {
		db, err := api.CreateDatabase(ctx, rootPageID, subjectsDatabaseTitle)
		if err != nil {
			return nil, fmt.Errorf("create subjects database: %w", err)
		}
		if err := s.users.SetSubjectsDatabase(userID, db.ID, db.PrimaryDataSource()); err != nil {
			return nil, err
		}
	}
	return s.users.FindByID(userID)
}

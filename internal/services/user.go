package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"todo-planner/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmptyUserName = errors.New("user name is required")
)

type UserService interface {
	FindUserByName(ctx context.Context, db *gorm.DB, name string) (*models.User, error)
	CreateUser(ctx context.Context, db *gorm.DB, id uuid.UUID, name string) (*models.User, error)
	Login(ctx context.Context, db *gorm.DB, name string) (*models.User, error)
}

type UserServiceImpl struct{}

func NewUserService() *UserServiceImpl {
	return &UserServiceImpl{}
}

func (s *UserServiceImpl) FindUserByName(ctx context.Context, db *gorm.DB, name string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).Where("user_name = ?", name).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a user unless the name is already taken, in which case
// the existing row is returned. Two concurrent logins with the same new name
// therefore resolve to one user.
func (s *UserServiceImpl) CreateUser(ctx context.Context, db *gorm.DB, id uuid.UUID, name string) (*models.User, error) {
	user := models.User{UserID: id, UserName: name}

	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_name"}}, DoNothing: true}).
		Create(&user)
	if result.Error != nil {
		log.Printf("Error creating user: %v", result.Error)
		return nil, fmt.Errorf("failed to create user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		existing, err := s.FindUserByName(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load user after name conflict: %w", err)
		}
		return existing, nil
	}

	return &user, nil
}

// Login matches an existing user by exact name or creates one. A failed
// lookup is treated like a missing user; creation then decides the outcome.
func (s *UserServiceImpl) Login(ctx context.Context, db *gorm.DB, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyUserName
	}

	user, err := s.FindUserByName(ctx, db, name)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		log.Printf("User lookup failed, falling back to create: %v", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	return s.CreateUser(ctx, db, id, name)
}

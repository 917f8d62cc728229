package repository

import (
	"context"
	"fmt"

	"campus-election-backend/models"

	"gorm.io/gorm"
)

// UserRepository is the data access interface for accounts.
type UserRepository interface {
	CreateUserWithProfile(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// CreateUserWithProfile inserts user and user.Profile in one transaction.
func (r *GormUserRepository) CreateUserWithProfile(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile", "Votes").Create(user).Error; err != nil {
			return translate(err)
		}
		user.Profile.UserID = user.ID
		if err := tx.Create(&user.Profile).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func (r *GormUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	return r.exists(ctx, &models.Profile{}, "student_id = ?", studentID)
}

func (r *GormUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, &models.Profile{}, "LOWER(email) = LOWER(?)", email)
}

func (r *GormUserRepository) exists(ctx context.Context, model any, query string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/models"
)

// UserRepository reads accounts and stores lecturer threshold overrides.
type UserRepository interface {
	Get(ctx context.Context, id uint) (models.User, error)
	SetEligibilityThreshold(ctx context.Context, userID uint, threshold *int) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return user, err
}

func (r *userRepository) SetEligibilityThreshold(ctx context.Context, userID uint, threshold *int) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("eligibility_threshold", threshold).Error
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"portfolio/internal/apperrors"
	"portfolio/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Repository[models.User]
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	*GORMRepository[models.User]
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		GORMRepository: NewGORMRepository[models.User](db, "user"),
	}
}

// GetByUsername retrieves a user by exact username.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// WithTx returns a copy of the repository that runs on tx.
func (r *GORMUserRepository) WithTx(tx *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{GORMRepository: r.GORMRepository.WithTx(tx)}
}

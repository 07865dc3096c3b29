package repositories

import (
	"context"
	"fmt"
	"time"

	"portfolio/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository tracks revoked session token IDs.
type SessionRepository interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{db: db}
}

// Revoke records jti as revoked. Revoking twice is not an error.
func (r *GORMSessionRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	rec := models.RevokedSession{JTI: jti, ExpiresAt: expiresAt}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked.
func (r *GORMSessionRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.RevokedSession{}).Where("jti = ?", jti).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

// PruneExpired deletes revocations whose token has expired by now.
func (r *GORMSessionRepository) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedSession{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune revoked sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"portfolio/internal/apperrors"

	"gorm.io/gorm"
)

// Repository defines the data access every table supports.
type Repository[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	First(ctx context.Context) (*T, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
	ExistsBy(ctx context.Context, column string, value any, excludeID string) (bool, error)
}

// GORMRepository is a GORM implementation of Repository for any model.
type GORMRepository[T any] struct {
	db   *gorm.DB
	name string
}

// NewGORMRepository creates a repository for T. name is used in error messages.
func NewGORMRepository[T any](db *gorm.DB, name string) *GORMRepository[T] {
	return &GORMRepository[T]{
		db:   db,
		name: name,
	}
}

// Transaction runs fn inside a database transaction. Any error returned by
// fn rolls the transaction back.
func (r *GORMRepository[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// WithTx returns a copy of the repository that runs on tx.
func (r *GORMRepository[T]) WithTx(tx *gorm.DB) *GORMRepository[T] {
	return &GORMRepository[T]{db: tx, name: r.name}
}

// GetAll retrieves every row in storage order.
func (r *GORMRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get all %s: %w", r.name, err)
	}
	return items, nil
}

// GetByID retrieves a single row by its ID.
func (r *GORMRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s with ID %s: %w", r.name, id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s by ID %s: %w", r.name, id, err)
	}
	return &item, nil
}

// First retrieves the first row in storage order.
func (r *GORMRepository[T]) First(ctx context.Context) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no %s: %w", r.name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get first %s: %w", r.name, err)
	}
	return &item, nil
}

// Count returns the number of rows.
func (r *GORMRepository[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.name, err)
	}
	return n, nil
}

// Create inserts a new row.
func (r *GORMRepository[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return r.writeError("create", err)
	}
	return nil
}

// Update saves every column of an existing row.
func (r *GORMRepository[T]) Update(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return r.writeError("update", err)
	}
	return nil
}

// Delete removes a row by its ID.
func (r *GORMRepository[T]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s with ID %s not found for deletion: %w", r.name, id, apperrors.ErrNotFound)
	}
	return nil
}

// ExistsBy reports whether a row other than excludeID has column = value.
// column must come from a trusted schema, never from user input.
func (r *GORMRepository[T]) ExistsBy(ctx context.Context, column string, value any, excludeID string) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(new(T)).Where(column+" = ?", value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check %s.%s: %w", r.name, column, err)
	}
	return n > 0, nil
}

func (r *GORMRepository[T]) writeError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to %s %s: %w", op, r.name, apperrors.ErrConflict)
	}
	return fmt.Errorf("failed to %s %s: %w", op, r.name, err)
}

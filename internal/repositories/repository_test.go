package repositories_test

import (
	"context"
	"testing"
	"time"

	"portfolio/internal/apperrors"
	"portfolio/internal/database/dbtest"
	"portfolio/internal/models"
	"portfolio/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGORMRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMRepository[models.Project](dbtest.New(t), "project")

	p := &models.Project{Title: "Portfolio", Description: "This site", Technologies: "Go,SQL"}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEmpty(t, p.ID, "ID is assigned on insert")
	assert.False(t, p.CreatedDate.IsZero(), "created date is defaulted on insert")

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", got.Title)

	got.Title = "Portfolio v2"
	require.NoError(t, repo.Update(ctx, got))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Portfolio v2", all[0].Title)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = repo.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMRepository_FirstOnEmptyTable(t *testing.T) {
	repo := repositories.NewGORMRepository[models.Profile](dbtest.New(t), "profile")
	_, err := repo.First(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMRepository_Transaction_RollsBack(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMRepository[models.Skill](dbtest.New(t), "skill")

	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(ctx, &models.Skill{Name: "Go"}); err != nil {
			return err
		}
		return apperrors.ErrValidation
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGORMUserRepository_UniqueUsername(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(dbtest.New(t))

	first := &models.User{Username: "root", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &models.User{Username: "root", PasswordHash: "y"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	exists, err := repo.ExistsBy(ctx, "username", "root", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBy(ctx, "username", "root", first.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the row itself is excluded")

	got, err := repo.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "x", got.PasswordHash)

	_, err = repo.GetByUsername(ctx, "Root")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "match is exact")
}

func TestGORMSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMSessionRepository(dbtest.New(t))
	now := time.Now()

	require.NoError(t, repo.Revoke(ctx, "old", now.Add(-time.Minute)))
	require.NoError(t, repo.Revoke(ctx, "live", now.Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "live", now.Add(time.Hour)), "revoking twice is allowed")

	revoked, err := repo.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "never")
	require.NoError(t, err)
	assert.False(t, revoked)

	pruned, err := repo.PruneExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	revoked, err = repo.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

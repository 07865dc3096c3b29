package services_test

import (
	"context"
	"testing"

	"portfolio/internal/apperrors"
	"portfolio/internal/database/dbtest"
	"portfolio/internal/models"
	"portfolio/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func adminIdentity() services.Identity {
	return services.Identity{User: &models.User{Username: "root", IsAdmin: true}}
}

func newAdminService(t *testing.T) (*services.AdminService, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	return services.NewAdminService(db, quietLogger()), db
}

func TestAdminService_RequiresAdmin(t *testing.T) {
	ctx := context.Background()
	admin, _ := newAdminService(t)
	member := services.Identity{User: &models.User{Username: "member"}}

	for name, identity := range map[string]services.Identity{
		"anonymous": services.Anonymous(),
		"non-admin": member,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := admin.Entities(identity)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
			_, err = admin.List(ctx, identity, "projects")
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
			_, err = admin.Create(ctx, identity, "projects", services.Values{"title": "t", "description": "d"})
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
			err = admin.Delete(ctx, identity, "projects", "x")
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}

func TestAdminService_Entities(t *testing.T) {
	admin, _ := newAdminService(t)

	schemas, err := admin.Entities(adminIdentity())
	require.NoError(t, err)
	var names []string
	for _, s := range schemas {
		names = append(names, s.Entity)
	}
	assert.Equal(t, []string{"users", "projects", "profiles", "certifications", "education", "skills"}, names)
}

func TestAdminService_UnknownEntity(t *testing.T) {
	admin, _ := newAdminService(t)
	_, err := admin.List(context.Background(), adminIdentity(), "orders")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAdminService_ProjectCRUD(t *testing.T) {
	ctx := context.Background()
	admin, _ := newAdminService(t)
	id := adminIdentity()

	created, err := admin.Create(ctx, id, "projects", services.Values{
		"title":        "Portfolio",
		"description":  "This site",
		"technologies": "Python,Flask,SQL",
	})
	require.NoError(t, err)
	project := created.(*models.Project)
	require.NotEmpty(t, project.ID)

	got, err := admin.Get(ctx, id, "projects", project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", got.(*models.Project).Title)

	updated, err := admin.Update(ctx, id, "projects", project.ID, services.Values{"title": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.(*models.Project).Title)
	assert.Equal(t, "This site", updated.(*models.Project).Description, "omitted fields are kept")

	list, err := admin.List(ctx, id, "projects")
	require.NoError(t, err)
	assert.Len(t, list.([]models.Project), 1)

	require.NoError(t, admin.Delete(ctx, id, "projects", project.ID))
	_, err = admin.Get(ctx, id, "projects", project.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, admin.Delete(ctx, id, "projects", project.ID), apperrors.ErrNotFound)
}

func TestAdminService_RequiredFields(t *testing.T) {
	ctx := context.Background()
	admin, db := newAdminService(t)

	_, err := admin.Create(ctx, adminIdentity(), "projects", services.Values{"title": "No description"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	var fe apperrors.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "required", fe["description"])

	var n int64
	require.NoError(t, db.Model(&models.Project{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAdminService_UnknownField(t *testing.T) {
	ctx := context.Background()
	admin, _ := newAdminService(t)

	_, err := admin.Create(ctx, adminIdentity(), "certifications", services.Values{"name": "CKA", "price": "9"})
	var fe apperrors.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "price")
}

func TestAdminService_FormValuesAreCoerced(t *testing.T) {
	ctx := context.Background()
	admin, _ := newAdminService(t)
	id := adminIdentity()

	created, err := admin.Create(ctx, id, "skills", services.Values{
		"name":              "Go",
		"category":          "Languages",
		"proficiency_level": "4",
	})
	require.NoError(t, err)
	skill := created.(*models.Skill)
	require.NotNil(t, skill.ProficiencyLevel)
	assert.Equal(t, 4, *skill.ProficiencyLevel)

	_, err = admin.Create(ctx, id, "skills", services.Values{"name": "Rust", "proficiency_level": "lots"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = admin.Create(ctx, id, "skills", services.Values{"name": "Go", "proficiency_level": 1e30})
	var fe apperrors.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "must be an integer", fe["proficiency_level"])

	created, err = admin.Create(ctx, id, "education", services.Values{
		"institution": "MIT",
		"degree":      "BSc",
		"start_date":  "2015-09-01",
		"end_date":    "",
	})
	require.NoError(t, err)
	edu := created.(*models.Education)
	require.NotNil(t, edu.StartDate)
	assert.Equal(t, 2015, edu.StartDate.Year())
	assert.Nil(t, edu.EndDate)
}

func TestAdminService_Users(t *testing.T) {
	ctx := context.Background()
	admin, db := newAdminService(t)
	id := adminIdentity()

	created, err := admin.Create(ctx, id, "users", services.Values{
		"username": "editor",
		"password": "pw1",
		"is_admin": "on",
	})
	require.NoError(t, err)
	user := created.(*models.User)
	assert.True(t, user.IsAdmin)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.True(t, services.VerifyCredential(user, "pw1"))

	t.Run("password is required on create", func(t *testing.T) {
		_, err := admin.Create(ctx, id, "users", services.Values{"username": "nopw"})
		var fe apperrors.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "required", fe["password"])
	})

	t.Run("update without password keeps the hash", func(t *testing.T) {
		_, err := admin.Update(ctx, id, "users", user.ID, services.Values{"is_admin": "false"})
		require.NoError(t, err)
		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.False(t, stored.IsAdmin)
		assert.True(t, services.VerifyCredential(&stored, "pw1"))
	})

	t.Run("update with password rehashes", func(t *testing.T) {
		_, err := admin.Update(ctx, id, "users", user.ID, services.Values{"password": "pw2"})
		require.NoError(t, err)
		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.True(t, services.VerifyCredential(&stored, "pw2"))
		assert.False(t, services.VerifyCredential(&stored, "pw1"))
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := admin.Create(ctx, id, "users", services.Values{"username": "editor", "password": "other"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		var users []models.User
		require.NoError(t, db.Find(&users, "username = ?", "editor").Error)
		require.Len(t, users, 1)
		assert.True(t, services.VerifyCredential(&users[0], "pw2"), "first row is unaffected")
	})

	t.Run("renaming onto an existing username conflicts", func(t *testing.T) {
		other, err := admin.Create(ctx, id, "users", services.Values{"username": "writer", "password": "pw"})
		require.NoError(t, err)
		_, err = admin.Update(ctx, id, "users", other.(*models.User).ID, services.Values{"username": "editor"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		_, err = admin.Update(ctx, id, "users", user.ID, services.Values{"username": "editor"})
		assert.NoError(t, err, "keeping the own username is not a conflict")
	})
}

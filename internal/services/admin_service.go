package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"portfolio/internal/apperrors"
	"portfolio/internal/models"
	"portfolio/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// The registered admin entities.
var (
	UserSchema = Schema{Entity: "users", Label: "User", Fields: []Field{
		{Name: "username", Kind: KindString, Required: true, Unique: true},
		{Name: "password", Kind: KindPassword, Required: true},
		{Name: "is_admin", Kind: KindBool},
	}}
	ProjectSchema = Schema{Entity: "projects", Label: "Project", Fields: []Field{
		{Name: "title", Kind: KindString, Required: true},
		{Name: "description", Kind: KindText, Required: true},
		{Name: "technologies", Kind: KindString},
		{Name: "image_url", Kind: KindString},
		{Name: "project_url", Kind: KindString},
	}}
	ProfileSchema = Schema{Entity: "profiles", Label: "Profile", Fields: []Field{
		{Name: "summary", Kind: KindText},
		{Name: "image_url", Kind: KindString},
	}}
	CertificationSchema = Schema{Entity: "certifications", Label: "Certification", Fields: []Field{
		{Name: "name", Kind: KindString, Required: true},
		{Name: "level", Kind: KindString},
		{Name: "image_url", Kind: KindString},
	}}
	EducationSchema = Schema{Entity: "education", Label: "Education", Fields: []Field{
		{Name: "institution", Kind: KindString, Required: true},
		{Name: "degree", Kind: KindString, Required: true},
		{Name: "field_of_study", Kind: KindString},
		{Name: "start_date", Kind: KindTime},
		{Name: "end_date", Kind: KindTime},
		{Name: "grade", Kind: KindString},
		{Name: "description", Kind: KindText},
	}}
	SkillSchema = Schema{Entity: "skills", Label: "Skill", Fields: []Field{
		{Name: "name", Kind: KindString, Required: true},
		{Name: "category", Kind: KindString},
		{Name: "proficiency_level", Kind: KindInt},
	}}
)

// resource is the type-erased view of a Resource the service dispatches to.
type resource interface {
	schema() Schema
	list(ctx context.Context) (any, error)
	get(ctx context.Context, id string) (any, error)
	create(ctx context.Context, values Values) (any, error)
	update(ctx context.Context, id string, values Values) (any, error)
	delete(ctx context.Context, id string) error
}

// Resource is the CRUD engine for one model type, driven by its Schema.
type Resource[T any] struct {
	def      Schema
	repo     *repositories.GORMRepository[T]
	validate *validator.Validate
	// secrets applies write-only fields, such as passwords, to the record.
	secrets func(item *T, secrets map[string]string) error
}

// NewResource creates the engine for T.
func NewResource[T any](db *gorm.DB, def Schema, validate *validator.Validate) *Resource[T] {
	return &Resource[T]{
		def:      def,
		repo:     repositories.NewGORMRepository[T](db, strings.ToLower(def.Label)),
		validate: validate,
	}
}

func (r *Resource[T]) schema() Schema { return r.def }

func (r *Resource[T]) list(ctx context.Context) (any, error) {
	return r.repo.GetAll(ctx)
}

func (r *Resource[T]) get(ctx context.Context, id string) (any, error) {
	return r.repo.GetByID(ctx, id)
}

func (r *Resource[T]) create(ctx context.Context, values Values) (any, error) {
	n, err := r.def.normalize(values, true)
	if err != nil {
		return nil, err
	}
	var item T
	if err := r.apply(&item, n); err != nil {
		return nil, err
	}

	err = r.repo.Transaction(ctx, func(tx *gorm.DB) error {
		repo := r.repo.WithTx(tx)
		if err := r.checkUnique(ctx, repo, n, ""); err != nil {
			return err
		}
		return repo.Create(ctx, &item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Resource[T]) update(ctx context.Context, id string, values Values) (any, error) {
	n, err := r.def.normalize(values, false)
	if err != nil {
		return nil, err
	}

	var item *T
	err = r.repo.Transaction(ctx, func(tx *gorm.DB) error {
		repo := r.repo.WithTx(tx)
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.apply(existing, n); err != nil {
			return err
		}
		if err := r.checkUnique(ctx, repo, n, id); err != nil {
			return err
		}
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		item = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Resource[T]) delete(ctx context.Context, id string) error {
	return r.repo.Delete(ctx, id)
}

// apply decodes the normalized record over item, applies secrets, and
// validates the result.
func (r *Resource[T]) apply(item *T, n *normalized) error {
	raw, err := json.Marshal(n.Record)
	if err != nil {
		return fmt.Errorf("failed to encode %s fields: %w", r.def.Entity, err)
	}
	if err := json.Unmarshal(raw, item); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if r.secrets != nil && len(n.Secrets) > 0 {
		if err := r.secrets(item, n.Secrets); err != nil {
			return err
		}
	}
	if err := r.validate.Struct(item); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fe := apperrors.FieldErrors{}
			for _, e := range verrs {
				fe[e.Field()] = e.Tag()
			}
			return fe
		}
		return fmt.Errorf("failed to validate %s: %w", r.def.Entity, err)
	}
	return nil
}

// checkUnique fails with ErrConflict when a supplied unique field already
// belongs to another row.
func (r *Resource[T]) checkUnique(ctx context.Context, repo *repositories.GORMRepository[T], n *normalized, excludeID string) error {
	for _, f := range r.def.Fields {
		if !f.Unique {
			continue
		}
		v, ok := n.Record[f.Name]
		if !ok {
			continue
		}
		exists, err := repo.ExistsBy(ctx, f.Name, v, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s %s %v already exists: %w", r.def.Label, f.Name, v, apperrors.ErrConflict)
		}
	}
	return nil
}

// AdminService is the generic admin console over every registered entity.
// Every operation takes the caller's identity and requires an administrator.
type AdminService struct {
	resources map[string]resource
	order     []string
	log       *logrus.Logger
}

// NewAdminService registers the six portfolio entities.
func NewAdminService(db *gorm.DB, log *logrus.Logger) *AdminService {
	validate := newValidator()

	users := NewResource[models.User](db, UserSchema, validate)
	users.secrets = func(u *models.User, secrets map[string]string) error {
		if p, ok := secrets["password"]; ok {
			return SetCredential(u, p)
		}
		return nil
	}

	s := &AdminService{resources: map[string]resource{}, log: log}
	s.register(users)
	s.register(NewResource[models.Project](db, ProjectSchema, validate))
	s.register(NewResource[models.Profile](db, ProfileSchema, validate))
	s.register(NewResource[models.Certification](db, CertificationSchema, validate))
	s.register(NewResource[models.Education](db, EducationSchema, validate))
	s.register(NewResource[models.Skill](db, SkillSchema, validate))
	return s
}

func (s *AdminService) register(r resource) {
	name := r.schema().Entity
	s.resources[name] = r
	s.order = append(s.order, name)
}

func (s *AdminService) lookup(identity Identity, entity string) (resource, error) {
	if err := RequireAdmin(identity); err != nil {
		return nil, err
	}
	r, ok := s.resources[entity]
	if !ok {
		return nil, fmt.Errorf("entity %q: %w", entity, apperrors.ErrNotFound)
	}
	return r, nil
}

// Entities returns the schema of every entity in registration order.
func (s *AdminService) Entities(identity Identity) ([]Schema, error) {
	if err := RequireAdmin(identity); err != nil {
		return nil, err
	}
	out := make([]Schema, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.resources[name].schema())
	}
	return out, nil
}

// List returns every record of entity, in unspecified order.
func (s *AdminService) List(ctx context.Context, identity Identity, entity string) (any, error) {
	r, err := s.lookup(identity, entity)
	if err != nil {
		return nil, err
	}
	return r.list(ctx)
}

// Get returns one record of entity.
func (s *AdminService) Get(ctx context.Context, identity Identity, entity, id string) (any, error) {
	r, err := s.lookup(identity, entity)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, id)
}

// Create inserts a record of entity built from values.
func (s *AdminService) Create(ctx context.Context, identity Identity, entity string, values Values) (any, error) {
	r, err := s.lookup(identity, entity)
	if err != nil {
		return nil, err
	}
	item, err := r.create(ctx, values)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Admin %s created %s record", identity.User.Username, entity)
	return item, nil
}

// Update changes the supplied fields of one record of entity.
func (s *AdminService) Update(ctx context.Context, identity Identity, entity, id string, values Values) (any, error) {
	r, err := s.lookup(identity, entity)
	if err != nil {
		return nil, err
	}
	item, err := r.update(ctx, id, values)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Admin %s updated %s record %s", identity.User.Username, entity, id)
	return item, nil
}

// Delete permanently removes one record of entity.
func (s *AdminService) Delete(ctx context.Context, identity Identity, entity, id string) error {
	r, err := s.lookup(identity, entity)
	if err != nil {
		return err
	}
	if err := r.delete(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Admin %s deleted %s record %s", identity.User.Username, entity, id)
	return nil
}

// newValidator reports field errors by JSON name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

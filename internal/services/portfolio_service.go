package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio/internal/apperrors"
	"portfolio/internal/models"
	"portfolio/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ProjectView is the public projection of a Project.
type ProjectView struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	ImageURL     string   `json:"image_url"`
	ProjectURL   string   `json:"project_url"`
	CreatedDate  string   `json:"created_date"`
}

// ProfileView is the public projection of a Profile. Both fields are
// omitted when no profile exists.
type ProfileView struct {
	Summary  *string `json:"summary,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// CertificationView is the public projection of a Certification.
type CertificationView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       string `json:"level"`
	ImageURL    string `json:"image_url"`
	CreatedDate string `json:"created_date"`
}

// PortfolioService serves the read-only public API.
type PortfolioService struct {
	projects       repositories.Repository[models.Project]
	profiles       repositories.Repository[models.Profile]
	certifications repositories.Repository[models.Certification]
	log            *logrus.Logger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(
	projects repositories.Repository[models.Project],
	profiles repositories.Repository[models.Profile],
	certifications repositories.Repository[models.Certification],
	log *logrus.Logger,
) *PortfolioService {
	return &PortfolioService{
		projects:       projects,
		profiles:       profiles,
		certifications: certifications,
		log:            log,
	}
}

// SplitTechnologies explodes a comma-delimited tag list into trimmed,
// non-empty tokens. An empty list yields an empty, non-nil slice.
func SplitTechnologies(technologies string) []string {
	out := []string{}
	for _, tok := range strings.Split(technologies, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ListProjects returns every project, in unspecified order.
func (s *PortfolioService) ListProjects(ctx context.Context) ([]ProjectView, error) {
	projects, err := s.projects.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, ProjectView{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			Technologies: SplitTechnologies(p.Technologies),
			ImageURL:     p.ImageURL,
			ProjectURL:   p.ProjectURL,
			CreatedDate:  formatTimestamp(p.CreatedDate),
		})
	}
	return views, nil
}

// GetProfile returns the first profile, or an empty view when none exists.
// Multiple profile rows are an integrity gap; it is logged, not resolved.
func (s *PortfolioService) GetProfile(ctx context.Context) (ProfileView, error) {
	profile, err := s.profiles.First(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ProfileView{}, nil
		}
		return ProfileView{}, err
	}

	if n, err := s.profiles.Count(ctx); err == nil && n > 1 {
		s.log.Warnf("Found %d profile rows; serving the first one", n)
	}
	return ProfileView{Summary: &profile.Summary, ImageURL: &profile.ImageURL}, nil
}

// ListCertifications returns every certification, in unspecified order.
func (s *PortfolioService) ListCertifications(ctx context.Context) ([]CertificationView, error) {
	certs, err := s.certifications.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CertificationView, 0, len(certs))
	for _, c := range certs {
		views = append(views, CertificationView{
			ID:          c.ID,
			Name:        c.Name,
			Level:       c.Level,
			ImageURL:    c.ImageURL,
			CreatedDate: formatTimestamp(c.CreatedDate),
		})
	}
	return views, nil
}

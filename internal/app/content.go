package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

// BlogService manages blog posts.
type BlogService struct {
	*Catalog[domain.Blog, *domain.Blog]

	repo ports.BlogRepository
}

// NewBlogService creates a blog service.
func NewBlogService(repo ports.BlogRepository) *BlogService {
	return &BlogService{Catalog: NewCatalog[domain.Blog](repo, "blog"), repo: repo}
}

// Create stores a post, defaulting its read time.
func (s *BlogService) Create(ctx context.Context, b *domain.Blog) error {
	if strings.TrimSpace(b.ReadTime) == "" {
		b.ReadTime = domain.DefaultReadTime
	}

	return s.Catalog.Create(ctx, b)
}

// Featured returns the newest featured posts, at most domain.FeaturedLimit.
func (s *BlogService) Featured(ctx context.Context) ([]domain.Blog, error) {
	blogs, err := s.repo.ListFeatured(ctx, domain.FeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("listing featured blogs: %w", err)
	}

	return blogs, nil
}

// ProjectService manages projects.
type ProjectService struct {
	*Catalog[domain.Project, *domain.Project]

	repo ports.ProjectRepository
}

// NewProjectService creates a project service.
func NewProjectService(repo ports.ProjectRepository) *ProjectService {
	return &ProjectService{Catalog: NewCatalog[domain.Project](repo, "project"), repo: repo}
}

// Featured returns the newest featured projects, at most domain.FeaturedLimit.
func (s *ProjectService) Featured(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.repo.ListFeatured(ctx, domain.FeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("listing featured projects: %w", err)
	}

	return projects, nil
}

// CertificateService manages certificates and badges.
type CertificateService struct {
	*Catalog[domain.Certificate, *domain.Certificate]

	repo ports.CertificateRepository
}

// NewCertificateService creates a certificate service.
func NewCertificateService(repo ports.CertificateRepository) *CertificateService {
	return &CertificateService{Catalog: NewCatalog[domain.Certificate](repo, "certificate"), repo: repo}
}

// ListByType lists certificates of kind, or all of them when kind is empty.
func (s *CertificateService) ListByType(ctx context.Context, kind domain.CertificateType) ([]domain.Certificate, error) {
	if kind != "" && !kind.Valid() {
		return nil, domain.NewValidationError("type", "must be badge or certificate")
	}

	certs, err := s.repo.ListFiltered(ctx, ports.CertificateFilter{Type: kind})
	if err != nil {
		return nil, fmt.Errorf("listing certificates: %w", err)
	}

	return certs, nil
}

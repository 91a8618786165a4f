package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
	"github.com/jsamuelsen/portfolio-service/internal/platform/metrics"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

// Contact listing page sizes.
const (
	DefaultContactPageSize = 20
	MaxContactPageSize     = 100
)

// ContactService accepts contact form submissions and lets admins work through them.
type ContactService struct {
	*Catalog[domain.Contact, *domain.Contact]

	repo    ports.ContactRepository
	flags   ports.FeatureFlags
	metrics *metrics.Metrics
}

// ContactServiceConfig wires a ContactService.
type ContactServiceConfig struct {
	Repo    ports.ContactRepository
	Flags   ports.FeatureFlags
	Metrics *metrics.Metrics
}

// NewContactService creates a contact service.
func NewContactService(cfg ContactServiceConfig) *ContactService {
	if cfg.Flags == nil {
		panic("app: contact service needs feature flags")
	}

	return &ContactService{
		Catalog: NewCatalog[domain.Contact](cfg.Repo, "contact"),
		repo:    cfg.Repo,
		flags:   cfg.Flags,
		metrics: cfg.Metrics,
	}
}

// Submit stores an anonymous submission. Submissions always start unread.
func (s *ContactService) Submit(ctx context.Context, c *domain.Contact) error {
	if !s.flags.IsEnabled(ctx, ports.FlagContactForm, true) {
		return domain.NewForbiddenError("submit contact", "contact form is disabled")
	}

	c.IsRead = false

	if err := s.Create(ctx, c); err != nil {
		return err
	}

	s.metrics.ContactSubmitted()

	return nil
}

// ListPage returns a page of submissions, newest first, and whether more remain.
func (s *ContactService) ListPage(ctx context.Context, page ports.Page) ([]domain.Contact, bool, error) {
	switch {
	case page.Limit <= 0:
		page.Limit = DefaultContactPageSize
	case page.Limit > MaxContactPageSize:
		page.Limit = MaxContactPageSize
	}

	if page.After < 0 {
		return nil, false, domain.NewValidationError("cursor", "is invalid")
	}

	contacts, more, err := s.repo.ListPage(ctx, page)
	if err != nil {
		return nil, false, fmt.Errorf("listing contacts: %w", err)
	}

	return contacts, more, nil
}

// MarkRead sets the read flag of submission id.
func (s *ContactService) MarkRead(ctx context.Context, id int64, read bool) (*domain.Contact, error) {
	c, err := s.Update(ctx, id, func(c *domain.Contact) error {
		c.IsRead = read
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).DebugContext(ctx, "contact read state changed",
		slog.Int64("id", id),
		slog.Bool("read", read),
	)

	return c, nil
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
	"github.com/jsamuelsen/portfolio-service/internal/platform/metrics"
	"github.com/jsamuelsen/portfolio-service/internal/platform/telemetry"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

// Import batch bounds.
const (
	MaxImportCount    = 10
	importConcurrency = 3
)

// QuoteService serves the quote of the day and manages the quote collection.
type QuoteService struct {
	*Catalog[domain.Quote, *domain.Quote]

	repo     ports.QuoteRepository
	source   ports.QuoteSource
	flags    ports.FeatureFlags
	metrics  *metrics.Metrics
	location *time.Location
	now      func() time.Time
}

// QuoteServiceConfig wires a QuoteService. Source may be nil when no external
// provider is configured; imports then fail as unavailable.
type QuoteServiceConfig struct {
	Repo     ports.QuoteRepository
	Source   ports.QuoteSource
	Flags    ports.FeatureFlags
	Metrics  *metrics.Metrics
	Location *time.Location
	Clock    func() time.Time
}

// NewQuoteService creates a quote service. Location defaults to UTC and Clock to time.Now.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Flags == nil {
		panic("app: quote service needs feature flags")
	}

	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &QuoteService{
		Catalog:  NewCatalog[domain.Quote](cfg.Repo, "quote"),
		repo:     cfg.Repo,
		source:   cfg.Source,
		flags:    cfg.Flags,
		metrics:  cfg.Metrics,
		location: cfg.Location,
		now:      cfg.Clock,
	}
}

// Daily returns the quote of the day for today's date in the configured time zone.
// With no active quotes it returns domain.FallbackQuote.
func (s *QuoteService) Daily(ctx context.Context) (domain.Quote, error) {
	ctx, span := telemetry.StartSpan(ctx, "QuoteService.Daily")
	defer span.End()

	active, err := s.repo.ListActive(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing active quotes")

		return domain.Quote{}, fmt.Errorf("listing active quotes: %w", err)
	}

	today := s.now().In(s.location)
	quote := domain.SelectDailyQuote(active, today)
	fallback := quote.ID == 0

	span.SetAttributes(
		attribute.Int("quote.active_count", len(active)),
		attribute.Int64("quote.ordinal", domain.DateOrdinal(today)),
		attribute.Bool("quote.fallback", fallback),
	)
	s.metrics.QuoteSelected(fallback)

	logging.FromContext(ctx).DebugContext(ctx, "quote of the day selected",
		slog.String("date", today.Format(time.DateOnly)),
		slog.Int("active", len(active)),
		slog.Bool("fallback", fallback),
	)

	return quote, nil
}

// ImportResult reports what an import stored.
type ImportResult struct {
	Imported []domain.Quote
	Skipped  int
}

// importBatch carries accepted quotes from verify to archive.
type importBatch struct {
	accepted []domain.Quote
	skipped  int
}

// Import fetches count quotes from the external provider and stores the new ones as active.
func (s *QuoteService) Import(ctx context.Context, count int) (*ImportResult, error) {
	op := Operation[int, []*domain.Quote, *importBatch, *ImportResult]{
		Name:     "import_quotes",
		Validate: s.validateImport,
		Perform: func(ctx context.Context, n int) ([]*domain.Quote, error) {
			return Repeat(ctx, n, importConcurrency, s.source.RandomQuote)
		},
		Verify: s.verifyImport,
		Archive: func(ctx context.Context, _ int, batch *importBatch) error {
			for i := range batch.accepted {
				if err := s.repo.Create(ctx, &batch.accepted[i]); err != nil {
					return fmt.Errorf("storing imported quote: %w", err)
				}
			}

			return nil
		},
		Respond: func(_ context.Context, _ int, batch *importBatch) (*ImportResult, error) {
			return &ImportResult{Imported: batch.accepted, Skipped: batch.skipped}, nil
		},
	}

	result, err := Execute(ctx, op, count)
	if err != nil {
		if domain.IsConflict(err) {
			s.metrics.QuoteImported("duplicate")
		} else {
			s.metrics.QuoteImported("failed")
		}

		return nil, err
	}

	s.metrics.QuoteImported("stored")

	return result, nil
}

func (s *QuoteService) validateImport(ctx context.Context, count int) error {
	if !s.flags.IsEnabled(ctx, ports.FlagQuoteImport, true) {
		return domain.NewForbiddenError("import quotes", "quote import is disabled")
	}

	if count < 1 || count > MaxImportCount {
		return domain.NewValidationError("count", fmt.Sprintf("must be between 1 and %d", MaxImportCount))
	}

	if s.source == nil {
		return domain.NewUnavailableError("quotes-api", "no external quote provider configured")
	}

	return nil
}

// verifyImport keeps fetched quotes that are valid, unique within the batch and not stored yet.
func (s *QuoteService) verifyImport(ctx context.Context, _ int, fetched []*domain.Quote) (*importBatch, error) {
	batch := &importBatch{}
	seen := make(map[[2]string]bool, len(fetched))
	logger := logging.FromContext(ctx)

	for _, q := range fetched {
		if q == nil {
			batch.skipped++
			continue
		}

		candidate := domain.Quote{
			Text:   strings.TrimSpace(q.Text),
			Author: strings.TrimSpace(q.Author),
			Active: true,
		}

		if err := candidate.Validate(); err != nil {
			logger.DebugContext(ctx, "skipping invalid imported quote", slog.Any("error", err))
			batch.skipped++

			continue
		}

		key := [2]string{candidate.Text, candidate.Author}
		if seen[key] {
			batch.skipped++
			continue
		}

		seen[key] = true

		exists, err := s.repo.Exists(ctx, candidate.Text, candidate.Author)
		if err != nil {
			return nil, fmt.Errorf("checking for duplicate quote: %w", err)
		}

		if exists {
			batch.skipped++
			continue
		}

		batch.accepted = append(batch.accepted, candidate)
	}

	if len(batch.accepted) == 0 {
		return nil, domain.NewConflictError("quote", "every fetched quote was invalid or already stored")
	}

	return batch, nil
}

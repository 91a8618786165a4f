// Package acl translates upstream APIs into the portfolio's domain. Nothing
// outside this package sees an upstream payload or status code.
package acl

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/clients"
	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
)

const randomQuotePath = "/random"

// QuoteSource implements ports.QuoteSource over a quotable-compatible API.
// It also serves as the provider's readiness check.
type QuoteSource struct {
	client *clients.Client
	name   string
}

// NewQuoteSource wraps client; name labels errors and health output.
func NewQuoteSource(client *clients.Client, name string) *QuoteSource {
	if client == nil {
		panic("acl: quote source needs a client")
	}

	if name == "" {
		name = "quotes-api"
	}

	return &QuoteSource{client: client, name: name}
}

// RandomQuote fetches one random quote.
func (s *QuoteSource) RandomQuote(ctx context.Context) (*domain.Quote, error) {
	resp, err := s.client.Get(ctx, randomQuotePath)
	if err != nil {
		return nil, MapClientError(err, s.name, "fetch random quote")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, MapStatus(resp, s.name, "fetch random quote")
	}

	external, err := decode[quotableQuote](resp.Body)
	if err != nil {
		return nil, domain.NewUnavailableError(s.name, err.Error())
	}

	quote := external.toDomain()

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "upstream quote translated",
		slog.String("upstream_id", external.ID),
		slog.String("author", quote.Author),
	)

	return quote, nil
}

// Name implements ports.HealthChecker.
func (s *QuoteSource) Name() string {
	return s.name
}

// Check implements ports.HealthChecker.
func (s *QuoteSource) Check(ctx context.Context) error {
	resp, err := s.client.Get(ctx, randomQuotePath)
	if err != nil {
		return MapClientError(err, s.name, "health check")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return MapStatus(resp, s.name, "health check")
	}

	return nil
}

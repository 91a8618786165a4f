package app

import (
	"context"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// Home is everything the landing page shows.
type Home struct {
	FeaturedBlogs    []domain.Blog
	FeaturedProjects []domain.Project
	Quote            domain.Quote
}

// HomeService assembles the landing page.
type HomeService struct {
	blogs    *BlogService
	projects *ProjectService
	quotes   *QuoteService
}

// NewHomeService creates a home service.
func NewHomeService(blogs *BlogService, projects *ProjectService, quotes *QuoteService) *HomeService {
	return &HomeService{blogs: blogs, projects: projects, quotes: quotes}
}

// Load fetches the featured content and the quote of the day concurrently.
func (s *HomeService) Load(ctx context.Context) (*Home, error) {
	blogs, projects, quote, err := Parallel3(ctx, s.blogs.Featured, s.projects.Featured, s.quotes.Daily)
	if err != nil {
		return nil, err
	}

	return &Home{FeaturedBlogs: blogs, FeaturedProjects: projects, Quote: quote}, nil
}

package dto

import (
	"time"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// QuoteRequest is the full representation accepted by POST and PUT.
// IsActive defaults to true when omitted.
type QuoteRequest struct {
	Text     string `json:"text"      validate:"required,notblank"`
	Author   string `json:"author"    validate:"required,notblank,max=100"`
	IsActive *bool  `json:"is_active"`
}

// Apply replaces every editable field of q.
func (r *QuoteRequest) Apply(q *domain.Quote) error {
	q.Text = r.Text
	q.Author = r.Author
	q.Active = r.IsActive == nil || *r.IsActive

	return nil
}

// QuotePatch carries the fields of a partial update.
type QuotePatch struct {
	Text     *string `json:"text"      validate:"omitempty,notblank"`
	Author   *string `json:"author"    validate:"omitempty,notblank,max=100"`
	IsActive *bool   `json:"is_active"`
}

// Apply copies the present fields onto q.
func (r *QuotePatch) Apply(q *domain.Quote) error {
	set(&q.Text, r.Text)
	set(&q.Author, r.Author)
	set(&q.Active, r.IsActive)

	return nil
}

// QuoteResponse is a stored quote as seen by admins.
type QuoteResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Author:    q.Author,
		IsActive:  q.Active,
		CreatedAt: q.CreatedAt,
	}
}

// DailyQuoteResponse is the public quote of the day. ID is omitted for the
// fallback quote, which is not stored.
type DailyQuoteResponse struct {
	ID     int64  `json:"id,omitempty"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

// NewDailyQuoteResponse converts the selected quote.
func NewDailyQuoteResponse(q *domain.Quote) DailyQuoteResponse {
	return DailyQuoteResponse{ID: q.ID, Text: q.Text, Author: q.Author}
}

// ImportRequest is the optional body of POST /quotes/import.
type ImportRequest struct {
	Count int `json:"count" validate:"omitempty,gte=1,lte=10"`
}

// GetCount returns the requested batch size, defaulting to one.
func (r *ImportRequest) GetCount() int {
	if r.Count == 0 {
		return 1
	}

	return r.Count
}

// ImportResponse reports what an import stored.
type ImportResponse struct {
	Imported []QuoteResponse `json:"imported"`
	Skipped  int             `json:"skipped"`
}

// HomeResponse is the landing page payload.
type HomeResponse struct {
	FeaturedBlogs    []BlogResponse     `json:"featured_blogs"`
	FeaturedProjects []ProjectResponse  `json:"featured_projects"`
	Quote            DailyQuoteResponse `json:"quote"`
}

// NewHomeResponse converts the home page view.
func NewHomeResponse(blogs []domain.Blog, projects []domain.Project, quote *domain.Quote) HomeResponse {
	return HomeResponse{
		FeaturedBlogs:    MapSlice(blogs, NewBlogResponse),
		FeaturedProjects: MapSlice(projects, NewProjectResponse),
		Quote:            NewDailyQuoteResponse(quote),
	}
}

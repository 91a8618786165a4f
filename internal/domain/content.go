package domain

import (
	"strings"
	"time"
)

// DefaultReadTime is applied to blogs created without a read time.
const DefaultReadTime = "5 min read"

// FeaturedLimit caps the featured listings shown on the home page.
const FeaturedLimit = 3

// Blog is a published article.
type Blog struct {
	ID         int64
	Title      string
	Excerpt    string
	Content    string
	Image      string
	Category   string
	ReadTime   string
	IsFeatured bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the blog content rules.
func (b *Blog) Validate() error {
	switch {
	case strings.TrimSpace(b.Title) == "":
		return NewValidationError("title", "is required")
	case runeLen(b.Title) > 200:
		return NewValidationError("title", "must be at most 200 characters")
	case strings.TrimSpace(b.Excerpt) == "":
		return NewValidationError("excerpt", "is required")
	case runeLen(b.Excerpt) > 300:
		return NewValidationError("excerpt", "must be at most 300 characters")
	case strings.TrimSpace(b.Content) == "":
		return NewValidationError("content", "is required")
	case runeLen(b.Category) > 50:
		return NewValidationError("category", "must be at most 50 characters")
	case runeLen(b.ReadTime) > 20:
		return NewValidationError("read_time", "must be at most 20 characters")
	}

	return nil
}

// Project is a showcased piece of work.
type Project struct {
	ID           int64
	Title        string
	Description  string
	Image        string
	Technologies []string
	GithubURL    string
	LiveURL      string
	IsFeatured   bool
	CreatedAt    time.Time
}

// Validate checks the project content rules.
func (p *Project) Validate() error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return NewValidationError("title", "is required")
	case runeLen(p.Title) > 200:
		return NewValidationError("title", "must be at most 200 characters")
	case strings.TrimSpace(p.Description) == "":
		return NewValidationError("description", "is required")
	}

	for _, tech := range p.Technologies {
		if strings.TrimSpace(tech) == "" {
			return NewValidationError("technologies", "must not contain empty entries")
		}
	}

	return nil
}

func runeLen(s string) int {
	return len([]rune(s))
}

package dto

import (
	"time"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// BlogRequest is the full representation accepted by POST and PUT.
type BlogRequest struct {
	Title      string `json:"title"       validate:"required,notblank,max=200"`
	Excerpt    string `json:"excerpt"     validate:"required,notblank,max=300"`
	Content    string `json:"content"     validate:"required,notblank"`
	Image      string `json:"image"`
	Category   string `json:"category"    validate:"max=50"`
	ReadTime   string `json:"read_time"   validate:"max=20"`
	IsFeatured bool   `json:"is_featured"`
}

// Apply replaces every editable field of b.
func (r *BlogRequest) Apply(b *domain.Blog) error {
	b.Title = r.Title
	b.Excerpt = r.Excerpt
	b.Content = r.Content
	b.Image = r.Image
	b.Category = r.Category
	b.ReadTime = r.ReadTime
	b.IsFeatured = r.IsFeatured

	return nil
}

// BlogPatch carries the fields of a partial update. Nil fields are left alone.
type BlogPatch struct {
	Title      *string `json:"title"       validate:"omitempty,notblank,max=200"`
	Excerpt    *string `json:"excerpt"     validate:"omitempty,notblank,max=300"`
	Content    *string `json:"content"     validate:"omitempty,notblank"`
	Image      *string `json:"image"`
	Category   *string `json:"category"    validate:"omitempty,max=50"`
	ReadTime   *string `json:"read_time"   validate:"omitempty,max=20"`
	IsFeatured *bool   `json:"is_featured"`
}

// Apply copies the present fields onto b.
func (p *BlogPatch) Apply(b *domain.Blog) error {
	set(&b.Title, p.Title)
	set(&b.Excerpt, p.Excerpt)
	set(&b.Content, p.Content)
	set(&b.Image, p.Image)
	set(&b.Category, p.Category)
	set(&b.ReadTime, p.ReadTime)
	set(&b.IsFeatured, p.IsFeatured)

	return nil
}

// BlogResponse is a blog post.
type BlogResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	Image      string    `json:"image"`
	Category   string    `json:"category"`
	ReadTime   string    `json:"read_time"`
	IsFeatured bool      `json:"is_featured"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewBlogResponse converts a domain blog.
func NewBlogResponse(b *domain.Blog) BlogResponse {
	return BlogResponse{
		ID:         b.ID,
		Title:      b.Title,
		Excerpt:    b.Excerpt,
		Content:    b.Content,
		Image:      b.Image,
		Category:   b.Category,
		ReadTime:   b.ReadTime,
		IsFeatured: b.IsFeatured,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ProjectRequest is the full representation accepted by POST and PUT.
type ProjectRequest struct {
	Title        string   `json:"title"        validate:"required,notblank,max=200"`
	Description  string   `json:"description"  validate:"required,notblank"`
	Image        string   `json:"image"`
	Technologies []string `json:"technologies" validate:"dive,notblank,max=50"`
	GithubURL    string   `json:"github_url"   validate:"omitempty,url"`
	LiveURL      string   `json:"live_url"     validate:"omitempty,url"`
	IsFeatured   bool     `json:"is_featured"`
}

// Apply replaces every editable field of p.
func (r *ProjectRequest) Apply(p *domain.Project) error {
	p.Title = r.Title
	p.Description = r.Description
	p.Image = r.Image
	p.Technologies = r.Technologies
	p.GithubURL = r.GithubURL
	p.LiveURL = r.LiveURL
	p.IsFeatured = r.IsFeatured

	return nil
}

// ProjectPatch carries the fields of a partial update.
type ProjectPatch struct {
	Title        *string   `json:"title"        validate:"omitempty,notblank,max=200"`
	Description  *string   `json:"description"  validate:"omitempty,notblank"`
	Image        *string   `json:"image"`
	Technologies *[]string `json:"technologies" validate:"omitempty,dive,notblank,max=50"`
	GithubURL    *string   `json:"github_url"   validate:"omitempty,url"`
	LiveURL      *string   `json:"live_url"     validate:"omitempty,url"`
	IsFeatured   *bool     `json:"is_featured"`
}

// Apply copies the present fields onto p.
func (r *ProjectPatch) Apply(p *domain.Project) error {
	set(&p.Title, r.Title)
	set(&p.Description, r.Description)
	set(&p.Image, r.Image)
	set(&p.Technologies, r.Technologies)
	set(&p.GithubURL, r.GithubURL)
	set(&p.LiveURL, r.LiveURL)
	set(&p.IsFeatured, r.IsFeatured)

	return nil
}

// ProjectResponse is a showcased project.
type ProjectResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Technologies []string  `json:"technologies"`
	GithubURL    string    `json:"github_url"`
	LiveURL      string    `json:"live_url"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewProjectResponse converts a domain project.
func NewProjectResponse(p *domain.Project) ProjectResponse {
	techs := p.Technologies
	if techs == nil {
		techs = []string{}
	}

	return ProjectResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Image:        p.Image,
		Technologies: techs,
		GithubURL:    p.GithubURL,
		LiveURL:      p.LiveURL,
		IsFeatured:   p.IsFeatured,
		CreatedAt:    p.CreatedAt,
	}
}

// CertificateRequest is the full representation accepted by POST and PUT.
type CertificateRequest struct {
	Title         string `json:"title"          validate:"required,notblank,max=200"`
	Issuer        string `json:"issuer"         validate:"required,notblank,max=100"`
	CertType      string `json:"cert_type"      validate:"required,oneof=badge certificate"`
	Image         string `json:"image"`
	CredentialURL string `json:"credential_url" validate:"omitempty,url"`
	IssueDate     string `json:"issue_date"     validate:"required,datetime=2006-01-02"`
}

// Apply replaces every editable field of c.
func (r *CertificateRequest) Apply(c *domain.Certificate) error {
	issued, err := parseIssueDate(r.IssueDate)
	if err != nil {
		return err
	}

	c.Title = r.Title
	c.Issuer = r.Issuer
	c.Type = domain.CertificateType(r.CertType)
	c.Image = r.Image
	c.CredentialURL = r.CredentialURL
	c.IssueDate = issued

	return nil
}

// CertificatePatch carries the fields of a partial update.
type CertificatePatch struct {
	Title         *string `json:"title"          validate:"omitempty,notblank,max=200"`
	Issuer        *string `json:"issuer"         validate:"omitempty,notblank,max=100"`
	CertType      *string `json:"cert_type"      validate:"omitempty,oneof=badge certificate"`
	Image         *string `json:"image"`
	CredentialURL *string `json:"credential_url" validate:"omitempty,url"`
	IssueDate     *string `json:"issue_date"     validate:"omitempty,datetime=2006-01-02"`
}

// Apply copies the present fields onto c.
func (r *CertificatePatch) Apply(c *domain.Certificate) error {
	if r.IssueDate != nil {
		issued, err := parseIssueDate(*r.IssueDate)
		if err != nil {
			return err
		}

		c.IssueDate = issued
	}

	if r.CertType != nil {
		c.Type = domain.CertificateType(*r.CertType)
	}

	set(&c.Title, r.Title)
	set(&c.Issuer, r.Issuer)
	set(&c.Image, r.Image)
	set(&c.CredentialURL, r.CredentialURL)

	return nil
}

// CertificateResponse is an earned certificate or badge.
type CertificateResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Issuer        string    `json:"issuer"`
	CertType      string    `json:"cert_type"`
	Image         string    `json:"image"`
	CredentialURL string    `json:"credential_url"`
	IssueDate     string    `json:"issue_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewCertificateResponse converts a domain certificate.
func NewCertificateResponse(c *domain.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:            c.ID,
		Title:         c.Title,
		Issuer:        c.Issuer,
		CertType:      string(c.Type),
		Image:         c.Image,
		CredentialURL: c.CredentialURL,
		IssueDate:     c.IssueDate.Format(domain.IssueDateLayout),
		CreatedAt:     c.CreatedAt,
	}
}

// CertificateQuery filters the certificate listing.
type CertificateQuery struct {
	Type string `form:"type" json:"type" validate:"omitempty,oneof=badge certificate"`
}

func parseIssueDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.IssueDateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("issue_date", "must be a date formatted as 2006-01-02")
	}

	return t, nil
}

// set overwrites *dst when src is present.
func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// MapSlice converts a slice of domain values with fn.
func MapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}

	return out
}

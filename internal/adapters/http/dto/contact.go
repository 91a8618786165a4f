package dto

import (
	"time"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// ContactRequest is an anonymous contact form submission.
type ContactRequest struct {
	Name    string `json:"name"    validate:"required,notblank,max=100"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"   validate:"max=20"`
	Message string `json:"message" validate:"required,notblank"`
}

// ToDomain builds the submission.
func (r *ContactRequest) ToDomain() *domain.Contact {
	return &domain.Contact{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Message: r.Message,
	}
}

// ContactPatch toggles the read flag.
type ContactPatch struct {
	IsRead *bool `json:"is_read" validate:"required"`
}

// ContactResponse is a stored submission.
type ContactResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
	IsRead      bool      `json:"is_read"`
}

// NewContactResponse converts a domain contact.
func NewContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Message:     c.Message,
		SubmittedAt: c.SubmittedAt,
		IsRead:      c.IsRead,
	}
}

// ContactAck is returned to the anonymous submitter instead of the stored row.
type ContactAck struct {
	ID          int64     `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

package domain

import (
	"net/mail"
	"strings"
	"time"
)

// Contact is a message left through the contact form.
type Contact struct {
	ID          int64
	Name        string
	Email       string
	Phone       string
	Message     string
	SubmittedAt time.Time
	IsRead      bool
}

// Validate checks the contact form rules.
func (c *Contact) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return NewValidationError("name", "is required")
	case runeLen(c.Name) > 100:
		return NewValidationError("name", "must be at most 100 characters")
	case runeLen(c.Phone) > 20:
		return NewValidationError("phone", "must be at most 20 characters")
	case strings.TrimSpace(c.Message) == "":
		return NewValidationError("message", "is required")
	}

	if _, err := mail.ParseAddress(c.Email); err != nil {
		return NewValidationError("email", "must be a valid email address")
	}

	return nil
}

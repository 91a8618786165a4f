package domain

import (
	"strings"
	"time"
)

// IssueDateLayout is the wire and storage layout of Certificate.IssueDate.
const IssueDateLayout = time.DateOnly

// CertificateType distinguishes badges from full certificates.
type CertificateType string

const (
	CertificateTypeBadge       CertificateType = "badge"
	CertificateTypeCertificate CertificateType = "certificate"
)

// Valid reports whether t is a known certificate type.
func (t CertificateType) Valid() bool {
	return t == CertificateTypeBadge || t == CertificateTypeCertificate
}

// Certificate is an earned credential.
type Certificate struct {
	ID            int64
	Title         string
	Issuer        string
	Type          CertificateType
	Image         string
	CredentialURL string
	IssueDate     time.Time
	CreatedAt     time.Time
}

// Validate checks the certificate rules.
func (c *Certificate) Validate() error {
	switch {
	case strings.TrimSpace(c.Title) == "":
		return NewValidationError("title", "is required")
	case runeLen(c.Title) > 200:
		return NewValidationError("title", "must be at most 200 characters")
	case strings.TrimSpace(c.Issuer) == "":
		return NewValidationError("issuer", "is required")
	case runeLen(c.Issuer) > 100:
		return NewValidationError("issuer", "must be at most 100 characters")
	case !c.Type.Valid():
		return NewValidationError("cert_type", "must be badge or certificate")
	case c.IssueDate.IsZero():
		return NewValidationError("issue_date", "is required")
	}

	return nil
}

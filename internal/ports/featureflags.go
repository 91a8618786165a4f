package ports

import "context"

// Known feature flags.
const (
	// FlagContactForm gates anonymous contact form submissions.
	FlagContactForm = "contact_form"

	// FlagQuoteImport gates importing quotes from the external provider.
	FlagQuoteImport = "quote_import"
)

// FeatureFlags evaluates boolean feature switches.
// IsEnabled returns defaultValue when the flag is unknown.
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}

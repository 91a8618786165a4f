// Package flags serves feature flags from the loaded configuration.
package flags

import (
	"context"
	"log/slog"
	"maps"

	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
)

// Static implements ports.FeatureFlags over a fixed set of values.
// Flags are read once at startup; changing them needs a restart.
type Static struct {
	values map[string]bool
}

// NewStatic copies values so later changes to the map are not observed.
func NewStatic(values map[string]bool) *Static {
	return &Static{values: maps.Clone(values)}
}

// IsEnabled returns the configured value of flag, or defaultValue when it is not configured.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	enabled, ok := s.values[flag]
	if !ok {
		logging.FromContext(ctx).DebugContext(ctx, "feature flag not configured, using default",
			slog.String("flag", flag),
			slog.Bool("default", defaultValue),
		)

		return defaultValue
	}

	return enabled
}

package logging

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// API tokens are 64 lowercase hex characters.
	apiTokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

	// Authorization header values in the "Token <t>" scheme.
	tokenSchemePattern = regexp.MustCompile(`(?i)^token\s+\S+$`)

	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)
)

// DefaultRedactOptions covers credentials and the personal data submitted through the contact form.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("password_hash"),
		masq.WithFieldName("PasswordHash"),
		masq.WithFieldName("token"),
		masq.WithFieldName("Digest"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("dsn"),
		masq.WithFieldName("email"),
		masq.WithFieldName("Email"),
		masq.WithFieldName("phone"),
		masq.WithFieldName("Phone"),

		masq.WithFieldPrefix("secret"),

		masq.WithRegex(apiTokenPattern),
		masq.WithRegex(tokenSchemePattern),
		masq.WithRegex(bearerPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr that applies DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}

// redactHandler applies a ReplaceAttr function to handlers that do not accept one,
// such as the charm pretty printer.
type redactHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func newRedactHandler(next slog.Handler, replace func([]string, slog.Attr) slog.Attr) *redactHandler {
	return &redactHandler{next: next, replace: replace}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.replace(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, clean)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleaned := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cleaned[i] = h.replace(h.groups, a)
	}

	return &redactHandler{next: h.next.WithAttrs(cleaned), replace: h.replace, groups: h.groups}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string(nil), h.groups...), name)

	return &redactHandler{next: h.next.WithGroup(name), replace: h.replace, groups: groups}
}

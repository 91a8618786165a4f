package sqlstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type migration struct {
	Version int
	Name    string
	SQL     string
}

// dialectTypes fills the column type placeholders used in migrations.
var dialectTypes = map[Dialect]*strings.Replacer{
	DialectSQLite: strings.NewReplacer(
		"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{fk}}", "INTEGER",
		"{{ts}}", "TIMESTAMP",
	),
	DialectPostgres: strings.NewReplacer(
		"{{pk}}", "BIGSERIAL PRIMARY KEY",
		"{{fk}}", "BIGINT",
		"{{ts}}", "TIMESTAMPTZ",
	),
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "content_schema",
		SQL: `
			CREATE TABLE blogs (
				id {{pk}},
				title TEXT NOT NULL,
				excerpt TEXT NOT NULL,
				content TEXT NOT NULL,
				image TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT '',
				read_time TEXT NOT NULL DEFAULT '5 min read',
				is_featured BOOLEAN NOT NULL DEFAULT FALSE,
				created_at {{ts}} NOT NULL,
				updated_at {{ts}} NOT NULL
			);
			CREATE INDEX idx_blogs_featured ON blogs (is_featured, created_at);

			CREATE TABLE projects (
				id {{pk}},
				title TEXT NOT NULL,
				description TEXT NOT NULL,
				image TEXT NOT NULL DEFAULT '',
				technologies TEXT NOT NULL DEFAULT '[]',
				github_url TEXT NOT NULL DEFAULT '',
				live_url TEXT NOT NULL DEFAULT '',
				is_featured BOOLEAN NOT NULL DEFAULT FALSE,
				created_at {{ts}} NOT NULL
			);
			CREATE INDEX idx_projects_featured ON projects (is_featured, created_at);

			CREATE TABLE albums (
				id {{pk}},
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				cover_image TEXT NOT NULL DEFAULT '',
				created_at {{ts}} NOT NULL
			);

			CREATE TABLE photos (
				id {{pk}},
				album_id {{fk}} NOT NULL REFERENCES albums (id) ON DELETE CASCADE,
				image TEXT NOT NULL,
				caption TEXT NOT NULL DEFAULT '',
				uploaded_at {{ts}} NOT NULL
			);
			CREATE INDEX idx_photos_album ON photos (album_id);

			CREATE TABLE certificates (
				id {{pk}},
				title TEXT NOT NULL,
				issuer TEXT NOT NULL,
				cert_type TEXT NOT NULL CHECK (cert_type IN ('badge', 'certificate')),
				image TEXT NOT NULL DEFAULT '',
				credential_url TEXT NOT NULL DEFAULT '',
				issue_date TEXT NOT NULL,
				created_at {{ts}} NOT NULL
			);

			CREATE TABLE contacts (
				id {{pk}},
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				phone TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL,
				submitted_at {{ts}} NOT NULL,
				is_read BOOLEAN NOT NULL DEFAULT FALSE
			);

			CREATE TABLE quotes (
				id {{pk}},
				text TEXT NOT NULL,
				author TEXT NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at {{ts}} NOT NULL
			);
			CREATE INDEX idx_quotes_active ON quotes (is_active);
		`,
	},
	{
		Version: 2,
		Name:    "admin_accounts",
		SQL: `
			CREATE TABLE admin_users (
				id {{pk}},
				username TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at {{ts}} NOT NULL
			);

			CREATE TABLE api_tokens (
				digest TEXT PRIMARY KEY,
				user_id {{fk}} NOT NULL REFERENCES admin_users (id) ON DELETE CASCADE,
				created_at {{ts}} NOT NULL,
				expires_at {{ts}} NOT NULL
			);
			CREATE INDEX idx_api_tokens_expires ON api_tokens (expires_at);
		`,
	},
	{
		Version: 3,
		Name:    "unique_quotes",
		SQL: `
			CREATE UNIQUE INDEX idx_quotes_text_author ON quotes (text, author);
		`,
	},
}

// Migrate applies every migration newer than the recorded schema version.
// Each migration runs in its own transaction. It returns the resulting version.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	types := dialectTypes[db.dialect]

	_, err := db.exec(ctx, types.Replace(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at {{ts}} NOT NULL
		)
	`))
	if err != nil {
		return 0, fmt.Errorf("creating migrations table: %w", err)
	}

	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return 0, err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		db.logger.InfoContext(ctx, "applying migration",
			slog.Int("version", m.Version),
			slog.String("name", m.Name),
		)

		err := db.Transaction(ctx, func(q querier) error {
			for i, stmt := range splitSQLStatements(types.Replace(m.SQL)) {
				if _, err := q.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %d statement %d: %w", m.Version, i+1, err)
				}
			}

			_, err := q.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
				m.Version, m.Name, now(),
			)
			if err != nil {
				return fmt.Errorf("recording migration %d: %w", m.Version, err)
			}

			return nil
		})
		if err != nil {
			return current, err
		}

		current = m.Version
	}

	return current, nil
}

// SchemaVersion returns the highest applied migration, 0 for an empty database.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int

	err := db.queryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	return version, nil
}

// LatestSchemaVersion is the version Migrate converges to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// splitSQLStatements splits a script on statement-terminating semicolons,
// dropping blank lines and -- comments.
func splitSQLStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)

	for line := range strings.SplitSeq(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}

		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != ";" {
				statements = append(statements, strings.TrimSuffix(stmt, ";"))
			}

			current.Reset()
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		statements = append(statements, rest)
	}

	return statements
}

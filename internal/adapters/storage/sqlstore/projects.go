package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

const projectColumns = `id, title, description, image, technologies, github_url, live_url, is_featured, created_at`

// ProjectStore implements ports.ProjectRepository. Technologies are stored as a JSON array.
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a project repository.
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func scanProject(row interface{ Scan(...any) error }) (domain.Project, error) {
	var (
		p    domain.Project
		tech string
	)

	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &tech, &p.GithubURL, &p.LiveURL,
		&p.IsFeatured, &p.CreatedAt)
	if err != nil {
		return p, err
	}

	if err := json.Unmarshal([]byte(tech), &p.Technologies); err != nil {
		return p, fmt.Errorf("decoding technologies of project %d: %w", p.ID, err)
	}

	return p, nil
}

func encodeTechnologies(tech []string) (string, error) {
	if tech == nil {
		tech = []string{}
	}

	raw, err := json.Marshal(tech)
	if err != nil {
		return "", fmt.Errorf("encoding technologies: %w", err)
	}

	return string(raw), nil
}

func (s *ProjectStore) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.db.query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, translate(err, "project", 0)
	}

	return collect(rows, "project", scanProject)
}

func (s *ProjectStore) ListFeatured(ctx context.Context, limit int) ([]domain.Project, error) {
	rows, err := s.db.query(ctx, `SELECT `+projectColumns+` FROM projects WHERE is_featured = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, true, limit)
	if err != nil {
		return nil, translate(err, "project", 0)
	}

	return collect(rows, "project", scanProject)
}

func (s *ProjectStore) Get(ctx context.Context, id int64) (*domain.Project, error) {
	p, err := scanProject(s.db.queryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, "project", id)
	}

	return &p, nil
}

func (s *ProjectStore) Create(ctx context.Context, p *domain.Project) error {
	tech, err := encodeTechnologies(p.Technologies)
	if err != nil {
		return err
	}

	ts := now()

	err = s.db.queryRow(ctx, `INSERT INTO projects
		(title, description, image, technologies, github_url, live_url, is_featured, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		p.Title, p.Description, p.Image, tech, p.GithubURL, p.LiveURL, p.IsFeatured, ts,
	).Scan(&p.ID)
	if err != nil {
		return translate(err, "project", 0)
	}

	p.CreatedAt = ts

	return nil
}

func (s *ProjectStore) Update(ctx context.Context, p *domain.Project) error {
	tech, err := encodeTechnologies(p.Technologies)
	if err != nil {
		return err
	}

	res, err := s.db.exec(ctx, `UPDATE projects SET title = ?, description = ?, image = ?, technologies = ?,
		github_url = ?, live_url = ?, is_featured = ? WHERE id = ?`,
		p.Title, p.Description, p.Image, tech, p.GithubURL, p.LiveURL, p.IsFeatured, p.ID,
	)
	if err != nil {
		return translate(err, "project", p.ID)
	}

	return checkAffected(res, "project", p.ID)
}

func (s *ProjectStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "projects", "project", id)
}

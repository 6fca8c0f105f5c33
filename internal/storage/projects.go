package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/typelesshq/typeless/internal/models"
)

// CreateProject creates a project with the given name and returns it.
// Names are unique; creating a duplicate returns a descriptive error.
func (s *Store) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name must not be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name) VALUES (?)`, name,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("project %q already exists", name)
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new project id: %w", err)
	}

	return s.GetProject(ctx, id)
}

// GetProject returns a single project by ID, including its fragment count.
// Returns ErrNotFound if the project does not exist.
func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var (
		p         models.Project
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT p.id, p.name, p.created_at,
		        (SELECT COUNT(*) FROM fragments f WHERE f.project_id = p.id)
		 FROM projects p WHERE p.id = ?`, id,
	).Scan(&p.ID, &p.Name, &createdAt, &p.FragmentCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting project %d: %w", id, err)
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// ListProjects returns all projects with fragment counts, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.created_at,
		        (SELECT COUNT(*) FROM fragments f WHERE f.project_id = p.id)
		 FROM projects p
		 ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var (
			p         models.Project
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Name, &createdAt, &p.FragmentCount); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}
	return projects, nil
}

// DeleteProject deletes a project and, via foreign key cascade, all of its
// fragments. Returns ErrNotFound if the project does not exist.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

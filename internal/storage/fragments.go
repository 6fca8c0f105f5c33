package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/typelesshq/typeless/internal/models"
)

// AddFragment appends a fragment to a project. Fragments are immutable after
// creation; there is no update operation. Returns a descriptive error if the
// project does not exist.
func (s *Store) AddFragment(ctx context.Context, projectID int64, content string) (*models.Fragment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("fragment content must not be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fragments (project_id, content) VALUES (?, ?)`,
		projectID, content,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return nil, fmt.Errorf("project %d does not exist", projectID)
		}
		return nil, fmt.Errorf("adding fragment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new fragment id: %w", err)
	}

	var (
		f         models.Fragment
		createdAt string
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT id, project_id, content, created_at FROM fragments WHERE id = ?`, id,
	).Scan(&f.ID, &f.ProjectID, &f.Content, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("reading back fragment %d: %w", id, err)
	}
	f.CreatedAt = parseTime(createdAt)
	return &f, nil
}

// ListFragments returns a project's fragments newest-first. That order is
// both the display order and the order the generation prompt consumes.
func (s *Store) ListFragments(ctx context.Context, projectID int64) ([]models.Fragment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, content, created_at
		 FROM fragments
		 WHERE project_id = ?
		 ORDER BY id DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying fragments: %w", err)
	}
	defer rows.Close()

	fragments := []models.Fragment{}
	for rows.Next() {
		var (
			f         models.Fragment
			createdAt string
		)
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning fragment row: %w", err)
		}
		f.CreatedAt = parseTime(createdAt)
		fragments = append(fragments, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fragment rows: %w", err)
	}
	return fragments, nil
}

// DeleteFragment deletes a fragment by ID. Returns ErrNotFound if it does
// not exist.
func (s *Store) DeleteFragment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fragments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting fragment %d: %w", id, err)
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

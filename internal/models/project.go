package models

import "time"

// Project is a named collection of inspiration fragments.
type Project struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FragmentCount int       `json:"fragment_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Fragment is a short unit of raw user-authored inspiration text, the atomic
// input to generation. Fragments are immutable once created except for
// deletion. Lists of fragments are ordered newest-first; the generation
// prompt consumes them in that same order.
type Fragment struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

// Category is the top level of the study hierarchy, e.g. Engineering.
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryFilter captures filters for listing categories.
type CategoryFilter struct {
	Search string
	Paging
}

package models

import "time"

// Department belongs to a category.
type Department struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	CategoryID   int64     `db:"category_id" json:"category_id"`
	CategoryName string    `db:"category_name" json:"category_name,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DepartmentFilter captures filters for listing departments.
type DepartmentFilter struct {
	CategoryID *int64
	Search     string
	Paging
}

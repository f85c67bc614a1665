package models

import "time"

// Year is a study year (1..10) inside a department.
type Year struct {
	ID             int64     `db:"id" json:"id"`
	YearNumber     int       `db:"year_number" json:"year_number"`
	DepartmentID   int64     `db:"department_id" json:"department_id"`
	DepartmentName string    `db:"department_name" json:"department_name,omitempty"`
	CategoryID     int64     `db:"category_id" json:"category_id,omitempty"`
	CategoryName   string    `db:"category_name" json:"category_name,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// YearFilter captures filters for listing years.
type YearFilter struct {
	DepartmentID *int64
	Paging
}

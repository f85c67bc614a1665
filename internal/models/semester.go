package models

import "time"

// Semester is a term (1..12) inside a year.
type Semester struct {
	ID             int64     `db:"id" json:"id"`
	SemesterNumber int       `db:"semester_number" json:"semester_number"`
	YearID         int64     `db:"year_id" json:"year_id"`
	YearNumber     int       `db:"year_number" json:"year_number,omitempty"`
	DepartmentID   int64     `db:"department_id" json:"department_id,omitempty"`
	DepartmentName string    `db:"department_name" json:"department_name,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SemesterFilter captures filters for listing semesters.
type SemesterFilter struct {
	YearID       *int64
	DepartmentID *int64
	Paging
}

package models

import "time"

// Subject is a course taught in a semester. Ancestor ids are denormalized
// from the semester lineage on write.
type Subject struct {
	ID             int64     `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	Credits        *int      `db:"credits" json:"credits,omitempty"`
	Description    string    `db:"description" json:"description"`
	SemesterID     int64     `db:"semester_id" json:"semester_id"`
	CategoryID     int64     `db:"category_id" json:"category_id"`
	DepartmentID   int64     `db:"department_id" json:"department_id"`
	YearID         int64     `db:"year_id" json:"year_id"`
	SemesterNumber int       `db:"semester_number" json:"semester_number,omitempty"`
	YearNumber     int       `db:"year_number" json:"year_number,omitempty"`
	DepartmentName string    `db:"department_name" json:"department_name,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	SemesterID   *int64
	DepartmentID *int64
	Search       string
	Paging
}

package models

import "time"

// ExamSchedule is a PDF exam timetable published for a semester.
type ExamSchedule struct {
	ID             int64     `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Description    string    `db:"description" json:"description"`
	PDFURL         string    `db:"pdf_url" json:"pdf_url"`
	StorageKey     string    `db:"storage_key" json:"-"`
	SemesterID     int64     `db:"semester_id" json:"semester_id"`
	SemesterNumber int       `db:"semester_number" json:"semester_number,omitempty"`
	YearNumber     int       `db:"year_number" json:"year_number,omitempty"`
	DepartmentName string    `db:"department_name" json:"department_name,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentFilter narrows exam schedule and timetable listings.
type DocumentFilter struct {
	SemesterID *int64
	Paging
}

package models

import "time"

// Timetable is a class timetable PDF, optionally bound to a semester.
type Timetable struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	PDFURL      string    `db:"pdf_url" json:"pdf_url"`
	StorageKey  string    `db:"storage_key" json:"-"`
	SemesterID  *int64    `db:"semester_id" json:"semester_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

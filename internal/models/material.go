package models

import (
	"strings"
	"time"
)

// MaterialType classifies an uploaded study material.
type MaterialType string

const (
	MaterialNotes      MaterialType = "notes"
	MaterialPYQ        MaterialType = "pyq"
	MaterialSyllabus   MaterialType = "syllabus"
	MaterialModelPaper MaterialType = "model_paper"
)

var materialTypeAliases = map[string]MaterialType{
	"notes":          MaterialNotes,
	"study_material": MaterialNotes,
	"pyq":            MaterialPYQ,
	"paper":          MaterialPYQ,
	"syllabus":       MaterialSyllabus,
	"model_paper":    MaterialModelPaper,
	"model":          MaterialModelPaper,
}

// ParseMaterialType resolves a type or one of its aliases.
func ParseMaterialType(raw string) (MaterialType, bool) {
	t, ok := materialTypeAliases[strings.ToLower(strings.TrimSpace(raw))]
	return t, ok
}

// Material is a PDF attached to a subject.
type Material struct {
	ID           int64        `db:"id" json:"id"`
	Title        string       `db:"title" json:"title"`
	Type         MaterialType `db:"type" json:"type"`
	Description  string       `db:"description" json:"description"`
	PDFURL       string       `db:"pdf_url" json:"pdf_url"`
	StorageKey   string       `db:"storage_key" json:"-"`
	SubjectID    int64        `db:"subject_id" json:"subject_id"`
	CategoryID   int64        `db:"category_id" json:"category_id"`
	DepartmentID int64        `db:"department_id" json:"department_id"`
	YearID       int64        `db:"year_id" json:"year_id"`
	SemesterID   int64        `db:"semester_id" json:"semester_id"`
	SubjectCode  string       `db:"subject_code" json:"subject_code,omitempty"`
	SubjectName  string       `db:"subject_name" json:"subject_name,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// MaterialFilter captures filters for listing materials.
type MaterialFilter struct {
	SubjectID  *int64
	SemesterID *int64
	Type       MaterialType
	Search     string
	Paging
}

// MaterialGroups buckets a subject's materials by type.
type MaterialGroups struct {
	Notes      []Material `json:"notes"`
	PYQ        []Material `json:"pyq"`
	Syllabus   []Material `json:"syllabus"`
	ModelPaper []Material `json:"model_paper"`
}

// GroupMaterials splits materials by type keeping their order.
func GroupMaterials(materials []Material) MaterialGroups {
	groups := MaterialGroups{
		Notes:      []Material{},
		PYQ:        []Material{},
		Syllabus:   []Material{},
		ModelPaper: []Material{},
	}
	for _, m := range materials {
		switch m.Type {
		case MaterialNotes:
			groups.Notes = append(groups.Notes, m)
		case MaterialPYQ:
			groups.PYQ = append(groups.PYQ, m)
		case MaterialSyllabus:
			groups.Syllabus = append(groups.Syllabus, m)
		case MaterialModelPaper:
			groups.ModelPaper = append(groups.ModelPaper, m)
		}
	}
	return groups
}

// MaterialInventoryRow is one line of the materials export.
type MaterialInventoryRow struct {
	Title          string    `db:"title"`
	Type           string    `db:"type"`
	SubjectCode    string    `db:"subject_code"`
	SubjectName    string    `db:"subject_name"`
	SemesterNumber int       `db:"semester_number"`
	YearNumber     int       `db:"year_number"`
	DepartmentName string    `db:"department_name"`
	CategoryName   string    `db:"category_name"`
	PDFURL         string    `db:"pdf_url"`
	CreatedAt      time.Time `db:"created_at"`
}

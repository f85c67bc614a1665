package models

// CategoryPage lists the departments of a category.
type CategoryPage struct {
	Category    Category     `json:"category"`
	Departments []Department `json:"departments"`
}

// DepartmentPage lists the years of a department.
type DepartmentPage struct {
	Department Department `json:"department"`
	Category   Category   `json:"category"`
	Years      []Year     `json:"years"`
}

// YearPage lists the semesters of a year.
type YearPage struct {
	Department Department `json:"department"`
	Year       Year       `json:"year"`
	Semesters  []Semester `json:"semesters"`
}

// SemesterPage lists the subjects of a semester.
type SemesterPage struct {
	Department Department `json:"department"`
	Year       Year       `json:"year"`
	Semester   Semester   `json:"semester"`
	Subjects   []Subject  `json:"subjects"`
}

// Breadcrumb locates a subject in the hierarchy.
type Breadcrumb struct {
	CategoryID     int64  `json:"category_id"`
	CategoryName   string `json:"category_name"`
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	YearID         int64  `json:"year_id"`
	YearNumber     int    `json:"year_number"`
	SemesterID     int64  `json:"semester_id"`
	SemesterNumber int    `json:"semester_number"`
}

// BreadcrumbFor builds a breadcrumb from a lineage.
func BreadcrumbFor(l SemesterLineage) Breadcrumb {
	return Breadcrumb(l)
}

// SubjectPage is the public detail view of a subject.
type SubjectPage struct {
	Subject    Subject        `json:"subject"`
	Breadcrumb Breadcrumb     `json:"breadcrumb"`
	Materials  MaterialGroups `json:"materials"`
	Opinions   []Opinion      `json:"opinions"`
	Summary    RatingSummary  `json:"summary"`
}

// HierarchySelection is the admin's current choice in the cascading selectors.
type HierarchySelection struct {
	CategoryID   *int64
	DepartmentID *int64
	YearID       *int64
	SemesterID   *int64
}

// HierarchyOptions holds the rows each selector may offer.
type HierarchyOptions struct {
	Categories  []Category   `json:"categories"`
	Departments []Department `json:"departments"`
	Years       []Year       `json:"years"`
	Semesters   []Semester   `json:"semesters"`
	Subjects    []Subject    `json:"subjects"`
}

package models

// SemesterLineage is the ancestor chain of a semester.
type SemesterLineage struct {
	CategoryID     int64  `db:"category_id" json:"category_id"`
	CategoryName   string `db:"category_name" json:"category_name"`
	DepartmentID   int64  `db:"department_id" json:"department_id"`
	DepartmentName string `db:"department_name" json:"department_name"`
	YearID         int64  `db:"year_id" json:"year_id"`
	YearNumber     int    `db:"year_number" json:"year_number"`
	SemesterID     int64  `db:"semester_id" json:"semester_id"`
	SemesterNumber int    `db:"semester_number" json:"semester_number"`
}

// SubjectLineage extends a semester lineage with the subject itself.
type SubjectLineage struct {
	SemesterLineage
	SubjectID   int64  `db:"subject_id" json:"subject_id"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
}

// AncestorIDs are optional client supplied ancestors checked against a lineage.
type AncestorIDs struct {
	CategoryID   *int64
	DepartmentID *int64
	YearID       *int64
	SemesterID   *int64
}

// Matches reports whether every supplied ancestor agrees with the lineage.
func (a AncestorIDs) Matches(l SemesterLineage) bool {
	check := func(given *int64, actual int64) bool { return given == nil || *given == actual }
	return check(a.CategoryID, l.CategoryID) &&
		check(a.DepartmentID, l.DepartmentID) &&
		check(a.YearID, l.YearID) &&
		check(a.SemesterID, l.SemesterID)
}

// Level names a tier of the study hierarchy.
type Level string

const (
	LevelCategory   Level = "category"
	LevelDepartment Level = "department"
	LevelYear       Level = "year"
	LevelSemester   Level = "semester"
	LevelSubject    Level = "subject"
)

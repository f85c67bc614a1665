package models

// DashboardCounts holds row counts shown on the admin dashboard.
type DashboardCounts struct {
	Categories    int `db:"categories" json:"categories"`
	Departments   int `db:"departments" json:"departments"`
	Years         int `db:"years" json:"years"`
	Semesters     int `db:"semesters" json:"semesters"`
	Subjects      int `db:"subjects" json:"subjects"`
	Materials     int `db:"materials" json:"materials"`
	ExamSchedules int `db:"exam_schedules" json:"exam_schedules"`
	Timetables    int `db:"timetables" json:"timetables"`
	Opinions      int `db:"opinions" json:"opinions"`
}

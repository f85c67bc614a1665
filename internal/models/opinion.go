package models

import "time"

// Opinion is an anonymous student rating of a subject.
type Opinion struct {
	ID          int64     `db:"id" json:"id"`
	SubjectID   int64     `db:"subject_id" json:"subject_id"`
	Rating      int       `db:"rating" json:"rating"`
	Comment     string    `db:"comment" json:"comment"`
	SubjectCode string    `db:"subject_code" json:"subject_code,omitempty"`
	SubjectName string    `db:"subject_name" json:"subject_name,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// OpinionFilter captures filters for the admin opinion listing.
type OpinionFilter struct {
	SubjectID *int64
	Paging
}

// RatingSummary aggregates a subject's opinions.
type RatingSummary struct {
	Count        int         `json:"count"`
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}

// SubjectOpinions is returned after reading or submitting opinions.
type SubjectOpinions struct {
	Opinions []Opinion     `json:"opinions"`
	Summary  RatingSummary `json:"summary"`
}

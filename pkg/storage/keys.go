package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
)

const fallbackSegment = "general"

// pdfExt is the only extension written. Uploads are sniffed as PDF before a key is built.
const pdfExt = "pdf"

// MaterialPath names the folders a material blob is filed under.
type MaterialPath struct {
	Category       string
	Department     string
	YearNumber     int
	SemesterNumber int
	Subject        string
}

// Slug lower-cases s and collapses anything outside [a-z0-9] into single dashes.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return fallbackSegment
	}
	return out
}

// FileName drops the client's extension, slugs the rest behind a millisecond
// stamp and always ends in .pdf.
func FileName(name string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), Slug(base), pdfExt)
}

// MaterialKey builds materials/{category}/{department}/year-{n}/semester-{n}/{subject}/{stamp}-{file}.
func MaterialKey(p MaterialPath, filename string, now time.Time) string {
	year := fallbackSegment
	if p.YearNumber > 0 {
		year = fmt.Sprintf("year-%d", p.YearNumber)
	}
	semester := fallbackSegment
	if p.SemesterNumber > 0 {
		semester = fmt.Sprintf("semester-%d", p.SemesterNumber)
	}
	return path.Join("materials", Slug(p.Category), Slug(p.Department), year, semester, Slug(p.Subject), FileName(filename, now))
}

// ExamScheduleKey builds exam-schedule/{semesterID}/{stamp}-{file}.
func ExamScheduleKey(semesterID int64, filename string, now time.Time) string {
	return path.Join("exam-schedule", fmt.Sprintf("%d", semesterID), FileName(filename, now))
}

// TimetableKey builds timetable-{stamp}.pdf. The client file name is not kept.
func TimetableKey(now time.Time) string {
	return fmt.Sprintf("timetable-%d.%s", now.UnixMilli(), pdfExt)
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type stubInventoryRepo struct {
	rows []models.MaterialInventoryRow
	err  error
}

func (s stubInventoryRepo) Inventory(ctx context.Context) ([]models.MaterialInventoryRow, error) {
	return s.rows, s.err
}

func newTestExportService(repo stubInventoryRepo) *ExportService {
	svc := NewExportService(repo, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestExportServiceMaterialsCSV(t *testing.T) {
	svc := newTestExportService(stubInventoryRepo{rows: []models.MaterialInventoryRow{{
		Title:          "Unit 1 Notes",
		Type:           "notes",
		SubjectCode:    "CS201",
		SubjectName:    "Data Structures",
		SemesterNumber: 3,
		YearNumber:     2,
		DepartmentName: "Computer Science",
		CategoryName:   "Engineering",
		PDFURL:         "http://files.test/materials/a.pdf",
		CreatedAt:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}})

	doc, err := svc.MaterialsInventory(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "materials-20240506.csv", doc.Filename)
	assert.True(t, strings.HasPrefix(doc.ContentType, "text/csv"))

	body := string(doc.Body)
	assert.Contains(t, body, "Title,Type,Subject,Semester,Year,Department,Category,URL,Created")
	assert.Contains(t, body, "Unit 1 Notes,notes,CS201 Data Structures,3,2,Computer Science,Engineering,http://files.test/materials/a.pdf,2024-01-02T03:04:05Z")
}

func TestExportServiceMaterialsCSVBlanksAndFormulas(t *testing.T) {
	svc := newTestExportService(stubInventoryRepo{rows: []models.MaterialInventoryRow{{
		Title:       "=cmd|' /C calc'!A0",
		Type:        "pyq",
		SubjectCode: "CS201",
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}})

	doc, err := svc.MaterialsInventory(context.Background(), "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(doc.Body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `'=cmd|' /C calc'!A0,pyq,CS201,-,-,-,-,-,2024-01-02T03:04:05Z`, lines[1])
}

func TestExportServiceMaterialsPDF(t *testing.T) {
	doc, err := newTestExportService(stubInventoryRepo{}).MaterialsInventory(context.Background(), "PDF")
	require.NoError(t, err)
	assert.Equal(t, "materials-20240506.pdf", doc.Filename)
	assert.True(t, strings.HasPrefix(string(doc.Body), "%PDF"))
}

func TestExportServiceErrors(t *testing.T) {
	_, err := newTestExportService(stubInventoryRepo{}).MaterialsInventory(context.Background(), "xlsx")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = newTestExportService(stubInventoryRepo{err: errors.New("boom")}).MaterialsInventory(context.Background(), "csv")
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

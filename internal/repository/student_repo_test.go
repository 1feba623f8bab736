package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/classboard/rollcall-api/internal/models"
)

func TestStudentRepositoryCreateRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	first := models.Student{StudentID: "2021001", Name: "Han Mei", Major: "Math"}
	require.NoError(t, repo.Create(context.Background(), &first))

	dup := models.Student{StudentID: "2021001", Name: "Someone Else", Major: "CS"}
	err := repo.Create(context.Background(), &dup)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestStudentRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	require.NoError(t, db.Create(&models.Student{StudentID: "a1", Name: "Alice Johnson", Major: "Math"}).Error)
	require.NoError(t, db.Create(&models.Student{StudentID: "b2", Name: "Bob Stone", Major: "CS"}).Error)

	students, total, err := repo.List(context.Background(), StudentFilter{Search: "alice", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, students, 1)
	require.Equal(t, "Alice Johnson", students[0].Name)

	students, total, err = repo.List(context.Background(), StudentFilter{Major: "CS", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Bob Stone", students[0].Name)
}

func TestStudentRepositoryUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	_, err := repo.Update(context.Background(), "missing", map[string]interface{}{"name": "x"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStudentRepositoryDeleteCascadesLedger(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	require.NoError(t, db.Create(&models.Student{StudentID: "c3", Name: "Cara", Major: "CS"}).Error)
	require.NoError(t, db.Create(&models.CallRecord{StudentID: "c3", Action: models.ActionArrive, ScoreChange: 1}).Error)
	require.NoError(t, db.Create(&models.CallRecord{StudentID: "c3", Action: models.ActionAbsent, ScoreChange: -2}).Error)

	require.NoError(t, repo.Delete(context.Background(), "c3"))

	var students, records int64
	require.NoError(t, db.Model(&models.Student{}).Count(&students).Error)
	require.NoError(t, db.Model(&models.CallRecord{}).Count(&records).Error)
	require.Zero(t, students)
	require.Zero(t, records)

	require.ErrorIs(t, repo.Delete(context.Background(), "c3"), gorm.ErrRecordNotFound)
}

func TestStudentRepositoryPickModes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	_, err := repo.PickRandom(context.Background())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.PickOldest(context.Background())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	stale := models.Student{StudentID: "d4", Name: "Dan", Major: "CS"}
	fresh := models.Student{StudentID: "e5", Name: "Eva", Major: "CS"}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)
	require.NoError(t, db.Model(&models.Student{}).Where("student_id = ?", "d4").
		Update("updated_at", time.Now().Add(-time.Hour)).Error)

	oldest, err := repo.PickOldest(context.Background())
	require.NoError(t, err)
	require.Equal(t, "d4", oldest.StudentID)

	picked, err := repo.PickRandom(context.Background())
	require.NoError(t, err)
	require.Contains(t, []string{"d4", "e5"}, picked.StudentID)
}

func TestStudentRepositoryImportBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	require.NoError(t, db.Create(&models.Student{StudentID: "dup", Name: "Existing", Major: "CS"}).Error)

	rows := []ImportRow{
		{Row: 2, StudentID: "n1", Name: "One", Major: "CS"},
		{Row: 3, StudentID: "n2", Name: "Two", Major: "CS"},
		{Row: 4, StudentID: "dup", Name: "Clash", Major: "CS"},
		{Row: 5, StudentID: "n3", Name: "Three", Major: "CS"},
		{Row: 6, StudentID: "n4", Name: "Four", Major: "CS"},
	}

	report, err := repo.ImportBatch(context.Background(), rows)
	require.NoError(t, err)
	require.Equal(t, 4, report.Success)
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	require.Contains(t, report.Failures[0], "row 4")
	require.Contains(t, report.Failures[0], "dup")

	var total int64
	require.NoError(t, db.Model(&models.Student{}).Count(&total).Error)
	require.Equal(t, int64(5), total)
}

func TestStudentRepositoryImportBatchMissingFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	rows := []ImportRow{
		{Row: 2, StudentID: "ok1", Name: "Fine", Major: "CS"},
		{Row: 3, StudentID: "", Name: "No ID", Major: "CS"},
		{Row: 4, StudentID: "ok2", Name: "", Major: "CS"},
	}

	report, err := repo.ImportBatch(context.Background(), rows)
	require.NoError(t, err)
	require.Equal(t, 1, report.Success)
	require.Equal(t, 2, report.Failed)
	require.Contains(t, report.Failures[0], "row 3")
	require.Contains(t, report.Failures[0], "missing required fields")
	require.Contains(t, report.Failures[1], "row 4")
}

func TestStudentRepositoryImportedStudentsStartAtZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	report, err := repo.ImportBatch(context.Background(), []ImportRow{
		{Row: 2, StudentID: "z1", Name: "Zed", Major: "Physics"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Success)

	student, err := repo.GetByStudentID(context.Background(), "z1")
	require.NoError(t, err)
	require.Zero(t, student.CurrentScore)
	require.Zero(t, student.TotalCalls)
}

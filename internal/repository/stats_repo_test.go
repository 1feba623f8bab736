package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classboard/rollcall-api/internal/models"
)

func TestStatsRepositoryOverview(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)

	require.NoError(t, db.Create(&models.Student{StudentID: "s1", Name: "One", Major: "CS", CurrentScore: 10, TotalCalls: 3, ArrivedCalls: 2, CorrectAnswers: 1}).Error)
	require.NoError(t, db.Create(&models.Student{StudentID: "s2", Name: "Two", Major: "Math", CurrentScore: 20, TotalCalls: 1, ArrivedCalls: 0, CorrectAnswers: 1}).Error)
	require.NoError(t, db.Create(&models.CallRecord{StudentID: "s1", Action: models.ActionArrive, ScoreChange: 1}).Error)
	require.NoError(t, db.Create(&models.CallRecord{StudentID: "s1", Action: models.ActionArrive, ScoreChange: 1}).Error)
	require.NoError(t, db.Create(&models.CallRecord{StudentID: "s2", Action: models.ActionAnswerGood, ScoreChange: 2}).Error)

	overview, err := repo.Overview(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, int64(2), overview.TotalStudents)
	require.Equal(t, int64(4), overview.TotalCalls)
	require.Equal(t, int64(2), overview.ArrivedCalls)
	require.Equal(t, int64(2), overview.CorrectAnswers)
	require.Equal(t, 15.0, overview.AverageScore)
	require.Equal(t, 20.0, overview.MaxScore)
	require.Equal(t, 10.0, overview.MinScore)
	require.Equal(t, int64(2), overview.ActionCounts[models.ActionArrive])
	require.Equal(t, int64(1), overview.ActionCounts[models.ActionAnswerGood])
	require.Len(t, overview.TopStudents, 2)
	require.Equal(t, "s2", overview.TopStudents[0].StudentID)
}

func TestStatsRepositoryOverviewEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)

	overview, err := repo.Overview(context.Background(), 5)
	require.NoError(t, err)
	require.Zero(t, overview.TotalStudents)
	require.Zero(t, overview.TotalCalls)
	require.Empty(t, overview.TopStudents)
	require.Empty(t, overview.ActionCounts)
}

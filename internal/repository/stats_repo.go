package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/classboard/rollcall-api/internal/models"
)

// StatsOverview aggregates the class-wide numbers shown on the dashboard.
type StatsOverview struct {
	TotalStudents  int64                   `json:"total_students"`
	TotalCalls     int64                   `json:"total_calls"`
	ArrivedCalls   int64                   `json:"arrived_calls"`
	CorrectAnswers int64                   `json:"correct_answers"`
	AverageScore   float64                 `json:"average_score"`
	MaxScore       float64                 `json:"max_score"`
	MinScore       float64                 `json:"min_score"`
	ActionCounts   map[models.Action]int64 `json:"action_counts"`
	TopStudents    []models.Student        `json:"top_students"`
}

// StatsRepository runs the aggregate queries.
type StatsRepository interface {
	Overview(ctx context.Context, topN int) (StatsOverview, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository constructs a stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Overview(ctx context.Context, topN int) (StatsOverview, error) {
	overview := StatsOverview{ActionCounts: map[models.Action]int64{}}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Student{}).Count(&overview.TotalStudents).Error; err != nil {
		return StatsOverview{}, err
	}

	if overview.TotalStudents > 0 {
		row := db.Model(&models.Student{}).
			Select("COALESCE(SUM(total_calls), 0), COALESCE(SUM(arrived_calls), 0), COALESCE(SUM(correct_answers), 0), COALESCE(AVG(current_score), 0), COALESCE(MAX(current_score), 0), COALESCE(MIN(current_score), 0)").
			Row()
		if err := row.Scan(
			&overview.TotalCalls,
			&overview.ArrivedCalls,
			&overview.CorrectAnswers,
			&overview.AverageScore,
			&overview.MaxScore,
			&overview.MinScore,
		); err != nil {
			return StatsOverview{}, err
		}
	}

	var counts []struct {
		Action models.Action
		Count  int64
	}
	if err := db.Model(&models.CallRecord{}).
		Select("action, COUNT(*) AS count").
		Group("action").
		Scan(&counts).Error; err != nil {
		return StatsOverview{}, err
	}
	for _, c := range counts {
		overview.ActionCounts[c.Action] = c.Count
	}

	if topN <= 0 {
		topN = 5
	}
	if err := db.Model(&models.Student{}).
		Order("current_score DESC").
		Limit(topN).
		Find(&overview.TopStudents).Error; err != nil {
		return StatsOverview{}, err
	}

	return overview, nil
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/classboard/rollcall-api/internal/dto"
	"github.com/classboard/rollcall-api/internal/repository"
)

const statsCacheKey = "rollcall:stats:overview"
const statsTopN = 5

// StatsService serves class-wide aggregates with a short-lived Redis cache.
type StatsService interface {
	Overview(ctx context.Context) (dto.StatsOverviewResponse, error)
}

type statsService struct {
	repo     repository.StatsRepository
	redis    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewStatsService constructs a stats service. The redis client may be nil,
// in which case every request hits the database.
func NewStatsService(repo repository.StatsRepository, redisClient *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) StatsService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &statsService{
		repo:     repo,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "stats_service").Logger(),
	}
}

func (s *statsService) Overview(ctx context.Context) (dto.StatsOverviewResponse, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			var response dto.StatsOverviewResponse
			if err := json.Unmarshal(cached, &response); err == nil {
				response.CacheHit = true
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("stats cache read failed")
		}
	}

	overview, err := s.repo.Overview(ctx, statsTopN)
	if err != nil {
		return dto.StatsOverviewResponse{}, err
	}
	response := newStatsResponse(overview)

	if s.redis != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.redis.Set(ctx, statsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("stats cache write failed")
			}
		}
	}

	return response, nil
}

func newStatsResponse(overview repository.StatsOverview) dto.StatsOverviewResponse {
	response := dto.StatsOverviewResponse{
		TotalStudents:  overview.TotalStudents,
		TotalCalls:     overview.TotalCalls,
		ArrivedCalls:   overview.ArrivedCalls,
		CorrectAnswers: overview.CorrectAnswers,
		AverageScore:   overview.AverageScore,
		MaxScore:       overview.MaxScore,
		MinScore:       overview.MinScore,
		ActionCounts:   make(map[string]int64, len(overview.ActionCounts)),
		TopStudents:    make([]dto.StudentResponse, 0, len(overview.TopStudents)),
	}
	if overview.TotalCalls > 0 {
		response.ArrivalRate = float64(overview.ArrivedCalls) / float64(overview.TotalCalls)
	}
	for action, count := range overview.ActionCounts {
		response.ActionCounts[string(action)] = count
	}
	for _, student := range overview.TopStudents {
		response.TopStudents = append(response.TopStudents, dto.NewStudentResponse(student))
	}
	return response
}

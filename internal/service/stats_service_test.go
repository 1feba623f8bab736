package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/classboard/rollcall-api/internal/models"
	"github.com/classboard/rollcall-api/internal/repository"
)

type statsRepoStub struct {
	overview repository.StatsOverview
	calls    int
}

func (s *statsRepoStub) Overview(_ context.Context, topN int) (repository.StatsOverview, error) {
	s.calls++
	return s.overview, nil
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestStatsServiceOverviewWithoutRedis(t *testing.T) {
	repo := &statsRepoStub{overview: repository.StatsOverview{
		TotalStudents: 2,
		TotalCalls:    4,
		ArrivedCalls:  3,
		AverageScore:  15,
	}}
	svc := NewStatsService(repo, nil, time.Second, testLogger())

	resp, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.TotalStudents)
	require.Equal(t, 0.75, resp.ArrivalRate)
	require.False(t, resp.CacheHit)

	_, err = svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls, "nil redis client must not cache")
}

func TestStatsServiceOverviewCaches(t *testing.T) {
	repo := &statsRepoStub{overview: repository.StatsOverview{
		TotalStudents: 1,
		TotalCalls:    2,
		ArrivedCalls:  1,
		TopStudents:   []models.Student{{StudentID: "s1", Name: "One"}},
	}}
	svc := NewStatsService(repo, testRedis(t), time.Minute, testLogger())

	first, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, 1, repo.calls)
	require.Equal(t, first.TotalCalls, second.TotalCalls)
	require.Len(t, second.TopStudents, 1)
	require.Equal(t, "s1", second.TopStudents[0].StudentID)
}

func TestStatsServiceArrivalRateEmptyClass(t *testing.T) {
	svc := NewStatsService(&statsRepoStub{}, nil, time.Second, testLogger())

	resp, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Zero(t, resp.ArrivalRate)
}

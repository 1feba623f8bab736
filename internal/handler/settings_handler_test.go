package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/classboard/rollcall-api/internal/dto"
	"github.com/classboard/rollcall-api/internal/handler"
	"github.com/classboard/rollcall-api/internal/service"
)

type mockSettingsService struct {
	rules       dto.ScoreRulesResponse
	probability dto.ProbabilityResponse
	err         error
}

func (m *mockSettingsService) ScoreRules(context.Context) (dto.ScoreRulesResponse, error) {
	if m.err != nil {
		return dto.ScoreRulesResponse{}, m.err
	}
	return m.rules, nil
}

func (m *mockSettingsService) UpdateScoreRules(_ context.Context, payload dto.ScoreRulesUpdateRequest) (dto.ScoreRulesResponse, error) {
	if m.err != nil {
		return dto.ScoreRulesResponse{}, m.err
	}
	return dto.ScoreRulesResponse{Rules: payload.Rules}, nil
}

func (m *mockSettingsService) Probability(context.Context) (dto.ProbabilityResponse, error) {
	if m.err != nil {
		return dto.ProbabilityResponse{}, m.err
	}
	return m.probability, nil
}

func (m *mockSettingsService) UpdateProbability(_ context.Context, payload dto.ProbabilityUpdateRequest) (dto.ProbabilityResponse, error) {
	if m.err != nil {
		return dto.ProbabilityResponse{}, m.err
	}
	return m.probability, nil
}

func newSettingsApp(svc service.SettingsService) *fiber.App {
	app := fiber.New()
	handler.NewSettingsHandler(svc, testLogger()).Register(app.Group("/api/v1/settings"))
	return app
}

func TestSettingsHandler_ScoreRules(t *testing.T) {
	svc := &mockSettingsService{rules: dto.ScoreRulesResponse{Rules: map[string]float64{"arrive": 1, "absent": -2}}}
	app := newSettingsApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/settings/score-rules", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                   `json:"success"`
		Data    dto.ScoreRulesResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, 1.0, body.Data.Rules["arrive"])
	require.Equal(t, -2.0, body.Data.Rules["absent"])
}

func TestSettingsHandler_UpdateScoreRulesUnknownAction(t *testing.T) {
	svc := &mockSettingsService{err: fmt.Errorf("%w: dance", service.ErrUnknownAction)}
	app := newSettingsApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/score-rules",
		strings.NewReader(`{"rules":{"dance":5}}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSettingsHandler_Probability(t *testing.T) {
	svc := &mockSettingsService{probability: dto.ProbabilityResponse{Probability: "0.2"}}
	app := newSettingsApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/settings/probability", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.ProbabilityResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "0.2", body.Data.Probability)
}

func TestSettingsHandler_UpdateProbability(t *testing.T) {
	svc := &mockSettingsService{probability: dto.ProbabilityResponse{Probability: "0.35"}}
	app := newSettingsApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/probability",
		strings.NewReader(`{"probability":0.35}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

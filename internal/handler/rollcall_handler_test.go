package handler_test

import (
	"context"
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

type mockRollCallService struct {
	lastSubmit dto.SubmitRequest
	lastMode   string
	submitResp dto.SubmitResponse
	submitErr  error
	pickResp   dto.StudentResponse
	pickErr    error
}

func (m *mockRollCallService) Submit(_ context.Context, payload dto.SubmitRequest) (dto.SubmitResponse, error) {
	m.lastSubmit = payload
	if m.submitErr != nil {
		return dto.SubmitResponse{}, m.submitErr
	}
	return m.submitResp, nil
}

func (m *mockRollCallService) Pick(_ context.Context, mode string) (dto.StudentResponse, error) {
	m.lastMode = mode
	if m.pickErr != nil {
		return dto.StudentResponse{}, m.pickErr
	}
	return m.pickResp, nil
}

func newRollCallApp(svc service.RollCallService) *fiber.App {
	app := fiber.New()
	handler.NewRollCallHandler(svc, testLogger()).Register(app.Group("/api/v1/rollcall"))
	return app
}

func TestRollCallHandler_SubmitSuccess(t *testing.T) {
	svc := &mockRollCallService{submitResp: dto.SubmitResponse{
		Message:      "roll call recorded",
		RandomEvent:  true,
		EventMsg:     "double points! score change was doubled",
		NewScore:     "16.00",
		AppliedDelta: 6,
	}}
	app := newRollCallApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rollcall/submit",
		strings.NewReader(`{"student_id":"2021001","action":"answer-excellent","score_change":3}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool               `json:"success"`
		Data    dto.SubmitResponse `json:"data"`
		Message string             `json:"message"`
	}
	decodeResponse(t, resp, &body)

	require.True(t, body.Success)
	require.Equal(t, "roll call recorded", body.Message)
	require.True(t, body.Data.RandomEvent)
	require.Equal(t, "16.00", body.Data.NewScore)
	require.Equal(t, 6.0, body.Data.AppliedDelta)
	require.Equal(t, "2021001", svc.lastSubmit.StudentID)
	require.Equal(t, 3.0, svc.lastSubmit.ScoreChange)
}

func TestRollCallHandler_SubmitStudentNotFound(t *testing.T) {
	svc := &mockRollCallService{submitErr: service.ErrStudentNotFound}
	app := newRollCallApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rollcall/submit",
		strings.NewReader(`{"student_id":"missing","action":"arrive","score_change":1}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "student not found", body.Message)
}

func TestRollCallHandler_SubmitUnknownAction(t *testing.T) {
	svc := &mockRollCallService{submitErr: service.ErrUnknownAction}
	app := newRollCallApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rollcall/submit",
		strings.NewReader(`{"student_id":"2021001","action":"dance"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRollCallHandler_SubmitMalformedBody(t *testing.T) {
	app := newRollCallApp(&mockRollCallService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rollcall/submit", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRollCallHandler_Pick(t *testing.T) {
	svc := &mockRollCallService{pickResp: dto.StudentResponse{StudentID: "2021001", Name: "Li Lei"}}
	app := newRollCallApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/rollcall/pick?mode=queue", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "queue", svc.lastMode)

	var body struct {
		Success bool                `json:"success"`
		Data    dto.StudentResponse `json:"data"`
		Message string              `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "student selected", body.Message)
	require.Equal(t, "2021001", body.Data.StudentID)
}

func TestRollCallHandler_PickEmptyRoster(t *testing.T) {
	svc := &mockRollCallService{pickErr: service.ErrNoStudents}
	app := newRollCallApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/rollcall/pick", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

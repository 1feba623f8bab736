package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/classboard/rollcall-api/internal/dto"
	"github.com/classboard/rollcall-api/internal/models"
	"github.com/classboard/rollcall-api/internal/observability"
	"github.com/classboard/rollcall-api/internal/realtime"
	"github.com/classboard/rollcall-api/internal/repository"
)

// ErrStudentNotFound indicates the referenced student does not exist.
var ErrStudentNotFound = errors.New("student not found")

// ErrNoStudents indicates the roster is empty.
var ErrNoStudents = errors.New("no students registered")

// ErrUnknownAction indicates an unrecognised action tag.
var ErrUnknownAction = errors.New("unknown action")

// ErrUnknownPickMode indicates an unsupported selection mode.
var ErrUnknownPickMode = errors.New("unknown pick mode")

// Selection modes.
const (
	PickModeRandom = "random"
	PickModeQueue  = "queue"
)

// RollCallService orchestrates roll-call submissions and student selection.
type RollCallService interface {
	Submit(ctx context.Context, payload dto.SubmitRequest) (dto.SubmitResponse, error)
	Pick(ctx context.Context, mode string) (dto.StudentResponse, error)
}

type rollCallService struct {
	repo        repository.RollCallRepository
	studentRepo repository.StudentRepository
	validator   *validator.Validate
	broadcaster *realtime.Broadcaster
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewRollCallService constructs the roll-call service. The broadcaster may
// be nil when no live board is attached.
func NewRollCallService(repo repository.RollCallRepository, studentRepo repository.StudentRepository, validator *validator.Validate, broadcaster *realtime.Broadcaster, logger zerolog.Logger) RollCallService {
	return &rollCallService{
		repo:        repo,
		studentRepo: studentRepo,
		validator:   validator,
		broadcaster: broadcaster,
		logger:      logger.With().Str("component", "rollcall_service").Logger(),
		tracer:      otel.Tracer("github.com/classboard/rollcall-api/internal/service/rollcall"),
	}
}

func (s *rollCallService) Submit(ctx context.Context, payload dto.SubmitRequest) (dto.SubmitResponse, error) {
	ctx, span := s.tracer.Start(ctx, "rollcall.submit")
	span.SetAttributes(
		attribute.String("rollcall.student_id", payload.StudentID),
		attribute.String("rollcall.action", string(payload.Action)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmitResponse{}, err
	}
	if !payload.Action.Valid() {
		span.SetStatus(codes.Error, "unknown_action")
		return dto.SubmitResponse{}, ErrUnknownAction
	}

	result, err := s.repo.Submit(ctx, repository.SubmitParams{
		StudentID:  payload.StudentID,
		Action:     payload.Action,
		BaseChange: payload.ScoreChange,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "student_not_found")
			return dto.SubmitResponse{}, ErrStudentNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit_failed")
		return dto.SubmitResponse{}, err
	}

	observability.Submissions().WithLabelValues(string(payload.Action)).Inc()
	if result.BonusTriggered {
		observability.BonusEvents().Inc()
	}

	newScore := dto.FormatScore(result.NewScore)
	if s.broadcaster != nil {
		s.broadcaster.Publish(realtime.Event{
			StudentID:    result.Student.StudentID,
			Name:         result.Student.Name,
			Action:       payload.Action,
			AppliedDelta: result.AppliedDelta,
			RandomEvent:  result.BonusTriggered,
			NewScore:     newScore,
			At:           time.Now(),
		})
	}

	s.logger.Info().
		Str("student_id", payload.StudentID).
		Str("action", string(payload.Action)).
		Float64("applied_delta", result.AppliedDelta).
		Bool("bonus", result.BonusTriggered).
		Msg("roll call recorded")

	span.SetAttributes(
		attribute.Float64("rollcall.applied_delta", result.AppliedDelta),
		attribute.Bool("rollcall.bonus", result.BonusTriggered),
	)

	response := dto.SubmitResponse{
		Message:      "roll call recorded",
		RandomEvent:  result.BonusTriggered,
		NewScore:     newScore,
		AppliedDelta: result.AppliedDelta,
	}
	if result.BonusTriggered {
		response.EventMsg = "double points! score change was doubled"
	}
	return response, nil
}

func (s *rollCallService) Pick(ctx context.Context, mode string) (dto.StudentResponse, error) {
	var (
		student models.Student
		err     error
	)

	switch mode {
	case PickModeRandom, "":
		student, err = s.studentRepo.PickRandom(ctx)
	case PickModeQueue:
		student, err = s.studentRepo.PickOldest(ctx)
	default:
		return dto.StudentResponse{}, ErrUnknownPickMode
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrNoStudents
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/classboard/rollcall-api/internal/dto"
	"github.com/classboard/rollcall-api/internal/models"
	"github.com/classboard/rollcall-api/internal/repository"
)

// SettingsService exposes the score rules and the bonus probability.
type SettingsService interface {
	ScoreRules(ctx context.Context) (dto.ScoreRulesResponse, error)
	UpdateScoreRules(ctx context.Context, payload dto.ScoreRulesUpdateRequest) (dto.ScoreRulesResponse, error)
	Probability(ctx context.Context) (dto.ProbabilityResponse, error)
	UpdateProbability(ctx context.Context, payload dto.ProbabilityUpdateRequest) (dto.ProbabilityResponse, error)
}

type settingsService struct {
	repo      repository.SettingsRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSettingsService constructs a settings service.
func NewSettingsService(repo repository.SettingsRepository, validator *validator.Validate, logger zerolog.Logger) SettingsService {
	return &settingsService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "settings_service").Logger(),
	}
}

func (s *settingsService) ScoreRules(ctx context.Context) (dto.ScoreRulesResponse, error) {
	setting, err := s.repo.Get(ctx, models.SettingScoreRules)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreRulesResponse{Rules: defaultRules()}, nil
		}
		return dto.ScoreRulesResponse{}, err
	}

	var rules map[string]float64
	if err := json.Unmarshal(setting.Value, &rules); err != nil {
		s.logger.Warn().Err(err).Msg("stored score rules unparsable, serving defaults")
		return dto.ScoreRulesResponse{Rules: defaultRules()}, nil
	}

	return dto.ScoreRulesResponse{Rules: rules}, nil
}

func (s *settingsService) UpdateScoreRules(ctx context.Context, payload dto.ScoreRulesUpdateRequest) (dto.ScoreRulesResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ScoreRulesResponse{}, err
	}
	for action := range payload.Rules {
		if !models.Action(action).Valid() {
			return dto.ScoreRulesResponse{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
		}
	}

	value, err := json.Marshal(payload.Rules)
	if err != nil {
		return dto.ScoreRulesResponse{}, fmt.Errorf("marshal score rules: %w", err)
	}
	if err := s.repo.Set(ctx, models.SettingScoreRules, value); err != nil {
		return dto.ScoreRulesResponse{}, err
	}

	s.logger.Info().Int("rules", len(payload.Rules)).Msg("score rules updated")
	return dto.ScoreRulesResponse{Rules: payload.Rules}, nil
}

func (s *settingsService) Probability(ctx context.Context) (dto.ProbabilityResponse, error) {
	setting, err := s.repo.Get(ctx, models.SettingRandomEventProbability)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProbabilityResponse{Probability: formatProbability(models.DefaultRandomEventProbability)}, nil
		}
		return dto.ProbabilityResponse{}, err
	}

	return dto.ProbabilityResponse{
		Probability: formatProbability(repository.ParseProbability(setting.Value)),
	}, nil
}

func (s *settingsService) UpdateProbability(ctx context.Context, payload dto.ProbabilityUpdateRequest) (dto.ProbabilityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProbabilityResponse{}, err
	}

	text := formatProbability(*payload.Probability)
	if err := s.repo.Set(ctx, models.SettingRandomEventProbability, []byte(strconv.Quote(text))); err != nil {
		return dto.ProbabilityResponse{}, err
	}

	s.logger.Info().Str("probability", text).Msg("bonus probability updated")
	return dto.ProbabilityResponse{Probability: text}, nil
}

func defaultRules() map[string]float64 {
	rules := make(map[string]float64)
	for action, delta := range models.DefaultScoreRules() {
		rules[string(action)] = delta
	}
	return rules
}

func formatProbability(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/classboard/rollcall-api/internal/dto"
)

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues bearer tokens for the instructor account.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	username  string
	password  string
	secret    string
	tokenTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs an auth service around the configured admin
// credentials.
func NewAuthService(username, password, secret string, tokenTTL time.Duration, validator *validator.Validate, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &authService{
		username:  username,
		password:  password,
		secret:    secret,
		tokenTTL:  tokenTTL,
		validator: validator,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(payload.Username), []byte(s.username)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(payload.Password), []byte(s.password)) == 1
	if !usernameOK || !passwordOK {
		s.logger.Warn().Str("username", payload.Username).Msg("login rejected")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  s.username,
		"role": "instructor",
		"iat":  s.now().Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info().Str("username", payload.Username).Msg("login succeeded")
	return dto.LoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

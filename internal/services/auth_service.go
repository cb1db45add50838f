package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"hdp-service/internal/models"
	"hdp-service/internal/repository"
	"hdp-service/internal/utils"
)

// ErrInvalidCredentials hides whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type ClinicianStore interface {
	Create(ctx context.Context, c *models.Clinician) error
	GetByUsername(ctx context.Context, username string) (*models.Clinician, error)
}

type AuthService struct {
	store      ClinicianStore
	jwtService *JWTService
	logger     *zap.Logger
}

func NewAuthService(store ClinicianStore, jwt *JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:      store,
		jwtService: jwt,
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	c, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Login attempt with unknown username", zap.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := utils.CheckPassword(c.PasswordHash, password); err != nil {
		s.logger.Warn("Invalid password attempt",
			zap.String("username", username),
			zap.String("clinician_id", c.ID),
		)
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(c)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Info("Clinician logged in", zap.String("clinician_id", c.ID))

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtService.AccessTokenTTL().Seconds()),
	}, nil
}

// ErrInvalidUsername rejects usernames that could not serve as an event
// topic level or a history key.
var ErrInvalidUsername = errors.New("username may only contain letters, digits, '.', '_' and '-' (max 100)")

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)

func (s *AuthService) CreateClinician(ctx context.Context, req models.CreateClinicianRequest) (*models.Clinician, error) {
	if req.Username == "" || req.Email == "" {
		return nil, errors.New("username and email are required")
	}
	if !usernamePattern.MatchString(req.Username) {
		return nil, ErrInvalidUsername
	}

	existing, err := s.store.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("clinician %q already exists", req.Username)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	c := &models.Clinician{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Clinician created", zap.String("clinician_id", c.ID), zap.String("username", c.Username))
	return c, nil
}

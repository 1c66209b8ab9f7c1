package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
)

const (
	accessTokenDuration  = 15 * time.Minute
	refreshTokenDuration = 7 * 24 * time.Hour
)

type Service struct {
	userRepo ports.UserRepository
	tokens   *JWTService
	log      *zap.Logger
}

func NewService(userRepo ports.UserRepository, cache ports.Cache, jwtSecret string, log *zap.Logger) ports.AuthService {
	return &Service{
		userRepo: userRepo,
		tokens:   NewJWTService(jwtSecret, accessTokenDuration, refreshTokenDuration, cache, log),
		log:      log,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		// Identical error for unknown email and bad password
		return "", "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", errors.New("invalid credentials")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.log.Warn("Failed to record login time", zap.String("user_id", user.ID), zap.Error(err))
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *Service) Register(ctx context.Context, user *domain.User) error {
	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPwd)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Role == "" {
		user.Role = domain.UserRoleViewer
	}
	user.Status = "Active"

	return s.userRepo.Save(ctx, user)
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}
	if claims.Type != "refresh" {
		return "", errors.New("not a refresh token")
	}
	if s.tokens.IsTokenRevoked(ctx, claims.ID) {
		return "", errors.New("refresh token revoked")
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil || user == nil {
		return "", errors.New("user not found")
	}

	return s.tokens.GenerateAccessToken(user)
}

func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != "access" {
		return nil, errors.New("not an access token")
	}
	if s.tokens.IsTokenRevoked(ctx, claims.ID) {
		return nil, errors.New("token revoked")
	}

	return s.userRepo.FindByID(ctx, claims.Subject)
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"github.com/Eursukkul/seasonal-booking/pkg/auth"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// ListAssignees returns the active users bookings can be assigned to.
	ListAssignees(ctx context.Context) ([]models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, logger: logger}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("failed login", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.CreateAccessToken(user.ID, user.Name, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expires, User: user}, nil
}

func (s *authService) ListAssignees(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindActive(ctx)
}

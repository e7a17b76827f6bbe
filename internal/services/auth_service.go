package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"gatherly_backend/internal/auth"
	"gatherly_backend/internal/config"
	"gatherly_backend/internal/email"
	"gatherly_backend/internal/logger"
	"gatherly_backend/internal/models"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/services/dto"
	"gatherly_backend/pkg/apperrors"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(refreshToken string) (*dto.LoginResponse, error)
	Logout(refreshToken string) error
	LogoutAll(userID string) error
	VerifyEmail(token string) error
	GetCurrentUser(userID string) (*dto.UserResponse, error)
}

type authService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
	cfg              *config.Config
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
		cfg:              cfg,
	}
}

func (s *authService) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	verificationToken, err := randomToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		Status:            models.UserStatusPending,
		VerificationToken: verificationToken,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.emailProvider.SendVerification(user.Email, verificationToken); err != nil {
		logger.WithError(err).Warn("verification email failed", "user_id", user.ID)
	}

	return buildUserResponse(user), nil
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == models.UserStatusBlocked {
		return nil, apperrors.NewForbiddenError("Account is blocked")
	}
	if !user.IsVerified {
		return nil, apperrors.ErrAccountNotVerified
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(refreshToken string) (*dto.LoginResponse, error) {
	stored, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.refreshTokenRepo.DeleteByToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Rotate: the presented token is single use.
	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

func (s *authService) Logout(refreshToken string) error {
	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// LogoutAll revokes every session the user holds, so stolen refresh
// tokens on other devices die with the current one.
func (s *authService) LogoutAll(userID string) error {
	if err := s.refreshTokenRepo.DeleteUserTokens(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if err := s.userRepo.VerifyUser(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) GetCurrentUser(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return buildUserResponse(user), nil
}

func (s *authService) issueTokens(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := randomToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         buildUserResponse(user),
	}, nil
}

func buildUserResponse(user *models.User) *dto.UserResponse {
	response := &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		IsVerified: user.IsVerified,
	}
	if user.Profile != nil {
		response.Profile = buildProfileResponse(user.Profile)
	}
	return response
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/app/repositories"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/auth"
	"github.com/mertdogan/coursehub/internal/pkg/email"
	"github.com/mertdogan/coursehub/internal/pkg/validation"
)

const passwordResetTokenTTL = time.Hour

// AuthService handles authentication operations
type AuthService struct {
	userRepo       *repositories.UserRepository
	tokenRepo      *repositories.TokenRepository
	resetTokenRepo *repositories.PasswordResetTokenRepository
	jwtService     *auth.JWTService
	emailService   email.EmailService
	logger         zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	resetTokenRepo *repositories.PasswordResetTokenRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		resetTokenRepo: resetTokenRepo,
		jwtService:     jwtService,
		emailService:   emailService,
		logger:         logger,
	}
}

// validateRegistration checks registration fields beyond binding tags
func (s *AuthService) validateRegistration(req *dto.RegisterRequest) error {
	if !validation.ValidEmail(req.Email) {
		return fmt.Errorf("%w: invalid email format", apperrors.ErrValidationFailed)
	}
	if !validation.ValidPassword(req.Password) {
		return fmt.Errorf("%w: password must be at least %d characters with a letter and a digit", apperrors.ErrValidationFailed, validation.PasswordMinLength)
	}
	if !validation.ValidName(req.Name) {
		return fmt.Errorf("%w: name must be between %d and %d characters", apperrors.ErrValidationFailed, validation.NameMinLength, validation.NameMaxLength)
	}
	if !validation.ValidPhone(req.Phone) {
		return fmt.Errorf("%w: invalid phone number format", apperrors.ErrValidationFailed)
	}
	return nil
}

// Register creates a new student account and signs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
		Password: hashedPassword,
		Role:     models.RoleStudent,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("Student registered")

	return s.issueTokens(ctx, user)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	return s.login(ctx, req, "")
}

// AdminLogin authenticates a user and additionally requires the admin role
func (s *AuthService) AdminLogin(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	return s.login(ctx, req, models.RoleAdmin)
}

func (s *AuthService) login(ctx context.Context, req *dto.LoginRequest, requiredRole models.RoleType) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same error as a wrong password so the response does not leak
			// which emails are registered
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if requiredRole != "" && user.Role != requiredRole {
		return nil, apperrors.ErrPermissionDenied
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")

	return s.issueTokens(ctx, user)
}

// issueTokens creates an access/refresh token pair and persists the refresh
// token.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             int64(expiresIn),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: int64(refreshExpiresIn),
		},
		User: dto.FromUser(user),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair. The
// used token is revoked so each refresh token works exactly once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, _, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes every refresh token the user holds
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID)
}

// GetProfile returns the authenticated user's profile
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile updates the authenticated user's editable fields
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	if !validation.ValidName(req.Name) {
		return nil, fmt.Errorf("%w: name must be between %d and %d characters", apperrors.ErrValidationFailed, validation.NameMinLength, validation.NameMaxLength)
	}
	if !validation.ValidPhone(req.Phone) {
		return nil, fmt.Errorf("%w: invalid phone number format", apperrors.ErrValidationFailed)
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(req.Name), req.Phone); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword verifies the current password and replaces it
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	if !validation.ValidPassword(newPassword) {
		return fmt.Errorf("%w: password must be at least %d characters with a letter and a digit", apperrors.ErrValidationFailed, validation.PasswordMinLength)
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	// Force re-login everywhere after a password change
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID)
}

// ForgotPassword issues a reset token and emails it to the user. Unknown
// emails succeed silently so the endpoint cannot be used for enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(emailAddr))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Str("email", emailAddr).Msg("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("error retrieving user: %w", err)
	}

	token := uuid.New().String()
	expiryDate := time.Now().Add(passwordResetTokenTTL)

	if err := s.resetTokenRepo.DeleteTokensByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("error clearing old reset tokens: %w", err)
	}
	if err := s.resetTokenRepo.CreateToken(ctx, user.ID, token, expiryDate); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, user.Name, token); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send password reset email")
	}

	return nil
}

// ResetPassword completes a password reset using a previously issued token
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, expiryDate, used, err := s.resetTokenRepo.GetTokenInfo(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return apperrors.ErrInvalidPasswordResetToken
		}
		return err
	}

	if used {
		return apperrors.ErrPasswordResetTokenUsed
	}
	if expiryDate.Before(time.Now()) {
		return apperrors.ErrInvalidPasswordResetToken
	}

	if !validation.ValidPassword(newPassword) {
		return fmt.Errorf("%w: password must be at least %d characters with a letter and a digit", apperrors.ErrValidationFailed, validation.PasswordMinLength)
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}
	if err := s.resetTokenRepo.MarkTokenAsUsed(ctx, token); err != nil {
		return err
	}

	// Existing sessions must not survive a reset
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID)
}

// SetProfilePicture stores the uploaded profile picture path
func (s *AuthService) SetProfilePicture(ctx context.Context, userID int64, path string) (*models.User, error) {
	if err := s.userRepo.UpdateProfilePic(ctx, userID, path); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// SetResume stores the uploaded resume path
func (s *AuthService) SetResume(ctx context.Context, userID int64, path string) (*models.User, error) {
	if err := s.userRepo.UpdateResume(ctx, userID, path); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// CleanupExpiredCredentials removes refresh tokens past their expiry (or
// revoked long ago) and expired password reset tokens. Run once at startup.
func (s *AuthService) CleanupExpiredCredentials(ctx context.Context) error {
	removed, err := s.tokenRepo.CleanupExpiredTokens(ctx)
	if err != nil {
		return err
	}
	if err := s.resetTokenRepo.DeleteExpiredTokens(ctx); err != nil {
		return err
	}
	s.logger.Info().Int64("removedRefreshTokens", removed).Msg("Expired credentials cleaned up")
	return nil
}

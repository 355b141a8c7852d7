package usecase

import (
	"context"
	"time"

	"main/model"
	"main/services"
	"main/utils"
)

// UserStore is the per-user durable state the identity flows mutate.
// *repository.UserRepo is the production implementation.
type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUser(ctx context.Context, userID string) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	SetTwoFactorSetup(ctx context.Context, userID, secret string, hashedCodes []string) error
	EnableTwoFactor(ctx context.Context, userID string) error
	DisableTwoFactor(ctx context.Context, userID string) error
	ConsumeRecoveryCode(ctx context.Context, userID, hashedCode string) (bool, error)
}

type UserService struct {
	Users  UserStore
	Tokens *services.TokenService
}

// LoginResult is either a completed login carrying a token pair, or a
// two-factor challenge carrying only the user id.
type LoginResult struct {
	Requires2FA  bool
	UserID       string
	AccessToken  string
	RefreshToken string
	User         *model.User
}

// Register creates a new account. Checks run in a fixed order:
// username conflict, email conflict, password policy, then hashing.
// No tokens are issued; the client logs in separately.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	existing, err := s.Users.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrUsernameTaken
	}

	existing, err = s.Users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	if !utils.ValidatePassword(req.Password) {
		return "", ErrWeakPassword
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		return "", err
	}

	now := time.Now()
	user := &model.User{
		UserID:    utils.GenerateUserID(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Users.AddUser(ctx, user); err != nil {
		return "", err
	}

	return user.UserID, nil
}

// Login verifies the password and either issues a token pair or, when
// 2FA is enabled, returns a challenge with no tokens attached. A
// missing user and a wrong password are indistinguishable to the
// caller; the active-account check runs only after the password holds.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*LoginResult, error) {
	user, err := s.Users.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		utils.TrackAuthAttempt("failure", "login")
		return nil, ErrInvalidCredentials
	}

	match, err := services.VerifyPassword(user.Password, req.Password)
	if err != nil || !match {
		utils.TrackAuthAttempt("failure", "login")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		utils.TrackAuthAttempt("failure", "login")
		return nil, ErrAccountDisabled
	}

	if user.TwoFactorEnabled {
		utils.TrackAuthAttempt("pending", "login")
		return &LoginResult{Requires2FA: true, UserID: user.UserID}, nil
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	utils.TrackAuthAttempt("success", "login")
	return result, nil
}

// Refresh rotates a valid refresh token into a fresh token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	userID, err := s.Tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, err
	}

	user, err := s.Users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	utils.TrackAuthAttempt("success", "refresh")
	return result, nil
}

func (s *UserService) issueTokens(user *model.User) (*LoginResult, error) {
	accessToken, err := s.Tokens.GenerateAccessToken(user.UserID)
	if err != nil {
		return nil, err
	}
	utils.TokenUsage.WithLabelValues("access", "generated").Inc()

	refreshToken, err := s.Tokens.GenerateRefreshToken(user.UserID)
	if err != nil {
		return nil, err
	}
	utils.TokenUsage.WithLabelValues("refresh", "generated").Inc()

	return &LoginResult{
		UserID:       user.UserID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

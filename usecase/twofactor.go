package usecase

import (
	"context"

	"github.com/pquerna/otp/totp"

	"main/services"
	"main/utils"
)

// TwoFactorService drives the 2FA state machine: disabled, pending
// setup (secret stored but not confirmed), enabled.
type TwoFactorService struct {
	Users  UserStore
	Tokens *services.TokenService
	Issuer string
}

type TwoFactorSetup struct {
	Secret          string   `json:"secret"`
	ProvisioningURI string   `json:"uri"`
	RecoveryCodes   []string `json:"recovery_codes"`
}

// Setup generates a fresh TOTP secret and ten single-use recovery
// codes, replacing any prior setup. The plain codes are returned to
// the caller exactly once; only their hashes are stored. 2FA stays
// unusable for login until Enable confirms a live code.
func (s *TwoFactorService) Setup(ctx context.Context, userID string) (*TwoFactorSetup, error) {
	user, err := s.Users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, err
	}

	codes, err := utils.GenerateRecoveryCodes()
	if err != nil {
		return nil, err
	}

	if err := s.Users.SetTwoFactorSetup(ctx, userID, key.Secret(), utils.HashRecoveryCodes(codes)); err != nil {
		return nil, err
	}

	return &TwoFactorSetup{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
		RecoveryCodes:   codes,
	}, nil
}

// Enable confirms a pending setup with a live TOTP code and flips the
// enabled flag. Secret and recovery codes are left untouched.
func (s *TwoFactorService) Enable(ctx context.Context, userID, code string) error {
	user, err := s.Users.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.TwoFactorSecret == "" {
		return ErrTwoFactorNotSetup
	}

	if !totp.Validate(code, user.TwoFactorSecret) {
		utils.TrackAuthAttempt("failure", "2fa")
		return ErrInvalidTwoFactorCode
	}

	if err := s.Users.EnableTwoFactor(ctx, userID); err != nil {
		return err
	}

	utils.TrackAuthAttempt("success", "2fa")
	return nil
}

// VerifyLogin completes a 2FA-challenged login. It accepts a current
// TOTP code or one unused recovery code; a recovery code is consumed
// atomically before tokens are issued, so it can never validate twice.
func (s *TwoFactorService) VerifyLogin(ctx context.Context, userID, code string) (*LoginResult, error) {
	user, err := s.Users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TwoFactorSecret == "" {
		return nil, ErrTwoFactorNotSetup
	}

	if !totp.Validate(code, user.TwoFactorSecret) {
		hashed := utils.HashString(utils.NormalizeRecoveryCode(code))
		consumed, err := s.Users.ConsumeRecoveryCode(ctx, userID, hashed)
		if err != nil {
			return nil, err
		}
		if !consumed {
			utils.TrackAuthAttempt("failure", "2fa")
			return nil, ErrInvalidTwoFactorCode
		}
	}

	userService := &UserService{Users: s.Users, Tokens: s.Tokens}
	result, err := userService.issueTokens(user)
	if err != nil {
		return nil, err
	}

	utils.TrackAuthAttempt("success", "2fa")
	return result, nil
}

// Disable turns 2FA off and wipes the secret and every recovery code.
// Only a live TOTP code is accepted here: a single leaked recovery
// code must not be enough to strip the account's protection.
func (s *TwoFactorService) Disable(ctx context.Context, userID, code string) error {
	user, err := s.Users.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.TwoFactorSecret == "" {
		return ErrTwoFactorNotSetup
	}

	if !totp.Validate(code, user.TwoFactorSecret) {
		utils.TrackAuthAttempt("failure", "2fa")
		return ErrInvalidTwoFactorCode
	}

	return s.Users.DisableTwoFactor(ctx, userID)
}

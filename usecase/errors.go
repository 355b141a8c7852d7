package usecase

import "errors"

// Error kinds returned by the orchestration layer. Handlers map these
// onto HTTP statuses; the messages never carry internal detail.
var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrWeakPassword         = errors.New("password does not meet the security policy")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrUserNotFound         = errors.New("user not found")
	ErrTwoFactorNotSetup    = errors.New("two-factor authentication is not set up")
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor code")
	ErrAPIKeyNotFound       = errors.New("API key not found")
	ErrNoAPIKeys            = errors.New("no API keys configured")
)

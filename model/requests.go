package model

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TwoFactorRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

type SetupTwoFactorRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type AddAPIKeyRequest struct {
	Platform    string `json:"platform" binding:"required"`
	APIKey      string `json:"api_key" binding:"required"`
	APISecret   string `json:"api_secret" binding:"required"`
	Passphrase  string `json:"passphrase"`
	Label       string `json:"label"`
	Permissions string `json:"permissions"`
}

package model

import "time"

type User struct {
	UserID           string    `bson:"user_id" json:"user_id"`
	Username         string    `bson:"username" json:"username" binding:"required"`
	Email            string    `bson:"email" json:"email" binding:"required,email"`
	Password         string    `bson:"password" json:"-"` // Argon2id hash, never serialized
	IsActive         bool      `bson:"is_active" json:"is_active"`
	IsVerified       bool      `bson:"is_verified" json:"is_verified"`
	TwoFactorEnabled bool      `bson:"two_factor_enabled" json:"two_factor_enabled"`
	TwoFactorSecret  string    `bson:"two_factor_secret" json:"-"`
	RecoveryCodes    []string  `bson:"recovery_codes" json:"-"` // hashed, ordered
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// UserView strips everything a client must never see (hashes, 2FA
// secret, recovery codes).
type UserView struct {
	UserID           string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	IsActive         bool      `json:"is_active"`
	IsVerified       bool      `json:"is_verified"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (u *User) View() UserView {
	return UserView{
		UserID:           u.UserID,
		Username:         u.Username,
		Email:            u.Email,
		IsActive:         u.IsActive,
		IsVerified:       u.IsVerified,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

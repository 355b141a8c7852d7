package model

import "time"

// APIKey is a per-user exchange credential. APIKeyEnc, APISecretEnc
// and PassphraseEnc hold ciphertext only; plaintext never reaches the
// database or any JSON response.
type APIKey struct {
	KeyID         string     `bson:"key_id" json:"-"`
	UserID        string     `bson:"user_id" json:"-"`
	Platform      string     `bson:"platform" json:"-"`
	APIKeyEnc     string     `bson:"api_key" json:"-"`
	APISecretEnc  string     `bson:"api_secret" json:"-"`
	PassphraseEnc string     `bson:"passphrase,omitempty" json:"-"`
	Label         string     `bson:"label" json:"-"`
	Permissions   string     `bson:"permissions" json:"-"`
	IsActive      bool       `bson:"is_active" json:"-"`
	LastUsed      *time.Time `bson:"last_used,omitempty" json:"-"`
	CreatedAt     time.Time  `bson:"created_at" json:"-"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"-"`
}

// APIKeyView is the redacted listing form: metadata only.
type APIKeyView struct {
	KeyID       string     `json:"id"`
	Platform    string     `json:"platform"`
	Label       string     `json:"label"`
	Permissions string     `json:"permissions"`
	IsActive    bool       `json:"is_active"`
	LastUsed    *time.Time `json:"last_used"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (k *APIKey) View() APIKeyView {
	return APIKeyView{
		KeyID:       k.KeyID,
		Platform:    k.Platform,
		Label:       k.Label,
		Permissions: k.Permissions,
		IsActive:    k.IsActive,
		LastUsed:    k.LastUsed,
		CreatedAt:   k.CreatedAt,
	}
}

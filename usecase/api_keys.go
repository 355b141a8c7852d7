package usecase

import (
	"context"
	"time"

	"main/exchange"
	"main/model"
	"main/services"
	"main/utils"
)

// APIKeyStore is the durable side of the credential store.
// *repository.APIKeyRepo is the production implementation.
type APIKeyStore interface {
	AddAPIKey(ctx context.Context, key *model.APIKey) error
	FindByUser(ctx context.Context, userID string) ([]model.APIKey, error)
	FindActiveByUser(ctx context.Context, userID string) ([]model.APIKey, error)
	DeleteAPIKey(ctx context.Context, userID, keyID string) (int64, error)
	TouchLastUsed(ctx context.Context, keyID string) error
}

// APIKeyService encrypts exchange credentials on the way in and only
// ever hands plaintext to exchange adapters, never to API responses.
type APIKeyService struct {
	Keys   APIKeyStore
	Cipher *services.SecretCipher
}

func (s *APIKeyService) Add(ctx context.Context, userID string, req model.AddAPIKeyRequest) (model.APIKeyView, error) {
	encKey, err := s.Cipher.Encrypt(req.APIKey)
	if err != nil {
		return model.APIKeyView{}, err
	}

	encSecret, err := s.Cipher.Encrypt(req.APISecret)
	if err != nil {
		return model.APIKeyView{}, err
	}

	var encPassphrase string
	if req.Passphrase != "" {
		if encPassphrase, err = s.Cipher.Encrypt(req.Passphrase); err != nil {
			return model.APIKeyView{}, err
		}
	}

	label := req.Label
	if label == "" {
		label = req.Platform + " API"
	}
	permissions := req.Permissions
	if permissions == "" {
		permissions = "read"
	}

	now := time.Now()
	key := &model.APIKey{
		KeyID:         utils.GenerateKeyID(),
		UserID:        userID,
		Platform:      req.Platform,
		APIKeyEnc:     encKey,
		APISecretEnc:  encSecret,
		PassphraseEnc: encPassphrase,
		Label:         label,
		Permissions:   permissions,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Keys.AddAPIKey(ctx, key); err != nil {
		return model.APIKeyView{}, err
	}

	utils.TrackCredentialOperation("add")
	return key.View(), nil
}

// List returns the redacted metadata view only.
func (s *APIKeyService) List(ctx context.Context, userID string) ([]model.APIKeyView, error) {
	keys, err := s.Keys.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]model.APIKeyView, 0, len(keys))
	for i := range keys {
		views = append(views, keys[i].View())
	}

	utils.TrackCredentialOperation("list")
	return views, nil
}

// Delete refuses cross-user deletion by reporting the key as absent;
// whether it exists under another owner is not observable.
func (s *APIKeyService) Delete(ctx context.Context, userID, keyID string) error {
	deleted, err := s.Keys.DeleteAPIKey(ctx, userID, keyID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrAPIKeyNotFound
	}

	utils.TrackCredentialOperation("delete")
	return nil
}

// ActiveKeys lists usable credentials for collaborator aggregation.
func (s *APIKeyService) ActiveKeys(ctx context.Context, userID string) ([]model.APIKey, error) {
	return s.Keys.FindActiveByUser(ctx, userID)
}

// DecryptForUse recovers plaintext credentials for an exchange call
// and bumps the key's last-used timestamp. The result must never
// cross the API boundary.
func (s *APIKeyService) DecryptForUse(ctx context.Context, key *model.APIKey) (exchange.Credentials, error) {
	apiKey, err := s.Cipher.Decrypt(key.APIKeyEnc)
	if err != nil {
		return exchange.Credentials{}, err
	}

	apiSecret, err := s.Cipher.Decrypt(key.APISecretEnc)
	if err != nil {
		return exchange.Credentials{}, err
	}

	var passphrase string
	if key.PassphraseEnc != "" {
		if passphrase, err = s.Cipher.Decrypt(key.PassphraseEnc); err != nil {
			return exchange.Credentials{}, err
		}
	}

	if err := s.Keys.TouchLastUsed(ctx, key.KeyID); err != nil {
		return exchange.Credentials{}, err
	}

	utils.TrackCredentialOperation("decrypt")
	return exchange.Credentials{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		Passphrase: passphrase,
	}, nil
}

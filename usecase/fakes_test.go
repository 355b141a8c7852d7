package usecase

import (
	"context"
	"sync"
	"time"

	"main/model"
)

// In-memory stores backing the service tests.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) AddUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.UserID] = &copied
	return nil
}

func (f *fakeUserStore) FindUser(_ context.Context, userID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserStore) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) SetTwoFactorSetup(_ context.Context, userID, secret string, hashedCodes []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.TwoFactorSecret = secret
	user.TwoFactorEnabled = false
	user.RecoveryCodes = append([]string(nil), hashedCodes...)
	user.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserStore) EnableTwoFactor(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.TwoFactorEnabled = true
	return nil
}

func (f *fakeUserStore) DisableTwoFactor(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.TwoFactorSecret = ""
	user.TwoFactorEnabled = false
	user.RecoveryCodes = nil
	return nil
}

func (f *fakeUserStore) ConsumeRecoveryCode(_ context.Context, userID, hashedCode string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	for i, stored := range user.RecoveryCodes {
		if stored == hashedCode {
			user.RecoveryCodes = append(user.RecoveryCodes[:i], user.RecoveryCodes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeAPIKeyStore struct {
	mu   sync.Mutex
	keys map[string]*model.APIKey
}

func newFakeAPIKeyStore() *fakeAPIKeyStore {
	return &fakeAPIKeyStore{keys: make(map[string]*model.APIKey)}
}

func (f *fakeAPIKeyStore) AddAPIKey(_ context.Context, key *model.APIKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *key
	f.keys[key.KeyID] = &copied
	return nil
}

func (f *fakeAPIKeyStore) FindByUser(_ context.Context, userID string) ([]model.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.APIKey
	for _, key := range f.keys {
		if key.UserID == userID {
			out = append(out, *key)
		}
	}
	return out, nil
}

func (f *fakeAPIKeyStore) FindActiveByUser(_ context.Context, userID string) ([]model.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.APIKey
	for _, key := range f.keys {
		if key.UserID == userID && key.IsActive {
			out = append(out, *key)
		}
	}
	return out, nil
}

func (f *fakeAPIKeyStore) DeleteAPIKey(_ context.Context, userID, keyID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key, ok := f.keys[keyID]; ok && key.UserID == userID {
		delete(f.keys, keyID)
		return 1, nil
	}
	return 0, nil
}

func (f *fakeAPIKeyStore) TouchLastUsed(_ context.Context, keyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key, ok := f.keys[keyID]; ok {
		now := time.Now()
		key.LastUsed = &now
	}
	return nil
}

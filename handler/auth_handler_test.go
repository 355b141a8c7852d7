package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"main/model"
	"main/services"
	"main/usecase"
	"main/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitValidator()
}

// memUserStore is a map-backed usecase.UserStore for handler tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*model.User)}
}

func (m *memUserStore) AddUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.UserID] = &copied
	return nil
}

func (m *memUserStore) FindUser(_ context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (m *memUserStore) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) SetTwoFactorSetup(_ context.Context, userID, secret string, hashedCodes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return usecase.ErrUserNotFound
	}
	user.TwoFactorSecret = secret
	user.TwoFactorEnabled = false
	user.RecoveryCodes = append([]string(nil), hashedCodes...)
	return nil
}

func (m *memUserStore) EnableTwoFactor(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		user.TwoFactorEnabled = true
	}
	return nil
}

func (m *memUserStore) DisableTwoFactor(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		user.TwoFactorSecret = ""
		user.TwoFactorEnabled = false
		user.RecoveryCodes = nil
	}
	return nil
}

func (m *memUserStore) ConsumeRecoveryCode(_ context.Context, userID, hashedCode string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
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

func newAuthTestRouter(store *memUserStore) *gin.Engine {
	tokens := services.NewTokenService("test_secret_key", 7*24*time.Hour)
	users := &usecase.UserService{Users: store, Tokens: tokens}
	twoFactor := &usecase.TwoFactorService{Users: store, Tokens: tokens, Issuer: "TradeWatch"}

	router := gin.New()
	router.POST("/auth/register", func(c *gin.Context) { RegistrationHandler(c, users) })
	router.POST("/auth/login", func(c *gin.Context) { LoginHandler(c, users) })
	router.POST("/auth/verify-2fa", func(c *gin.Context) { Verify2FAHandler(c, twoFactor) })
	router.POST("/auth/setup-2fa", func(c *gin.Context) { Setup2FAHandler(c, twoFactor) })
	router.POST("/auth/enable-2fa", func(c *gin.Context) { Enable2FAHandler(c, twoFactor) })
	router.POST("/auth/disable-2fa", func(c *gin.Context) { Disable2FAHandler(c, twoFactor) })
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}

func TestRegistrationHandler(t *testing.T) {
	router := newAuthTestRouter(newMemUserStore())

	register := gin.H{"username": "alice", "email": "a@x.com", "password": "Str0ng!Passw0rd"}

	w := postJSON(t, router, "/auth/register", register)
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["user_id"] == "" {
		t.Error("missing user_id in response")
	}

	// Same username again: existence leaks through the 409 here, a
	// known asymmetry with login.
	w = postJSON(t, router, "/auth/register", register)
	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d, want 409", w.Code)
	}
}

func TestRegistrationHandlerWeakPassword(t *testing.T) {
	router := newAuthTestRouter(newMemUserStore())

	w := postJSON(t, router, "/auth/register",
		gin.H{"username": "alice", "email": "a@x.com", "password": "weakpw"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestRegistrationHandlerIncomplete(t *testing.T) {
	router := newAuthTestRouter(newMemUserStore())

	w := postJSON(t, router, "/auth/register", gin.H{"username": "alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	store := newMemUserStore()
	router := newAuthTestRouter(store)

	postJSON(t, router, "/auth/register",
		gin.H{"username": "alice", "email": "a@x.com", "password": "Str0ng!Passw0rd"})

	t.Run("Success", func(t *testing.T) {
		w := postJSON(t, router, "/auth/login",
			gin.H{"username": "alice", "password": "Str0ng!Passw0rd"})
		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200: %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["access_token"] == nil || body["refresh_token"] == nil {
			t.Error("missing tokens in login response")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		w := postJSON(t, router, "/auth/login",
			gin.H{"username": "alice", "password": "Wr0ng!Passw0rd"})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, want 401", w.Code)
		}
	})

	t.Run("UnknownUserSameError", func(t *testing.T) {
		w := postJSON(t, router, "/auth/login",
			gin.H{"username": "nobody", "password": "Str0ng!Passw0rd"})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, want 401", w.Code)
		}
	})
}

func TestLoginHandlerDisabledAccount(t *testing.T) {
	store := newMemUserStore()
	router := newAuthTestRouter(store)

	w := postJSON(t, router, "/auth/register",
		gin.H{"username": "alice", "email": "a@x.com", "password": "Str0ng!Passw0rd"})
	userID := decodeBody(t, w)["user_id"].(string)

	store.mu.Lock()
	store.users[userID].IsActive = false
	store.mu.Unlock()

	w = postJSON(t, router, "/auth/login",
		gin.H{"username": "alice", "password": "Str0ng!Passw0rd"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", w.Code)
	}
}

func TestLoginHandlerTwoFactorChallenge(t *testing.T) {
	store := newMemUserStore()
	router := newAuthTestRouter(store)

	w := postJSON(t, router, "/auth/register",
		gin.H{"username": "alice", "email": "a@x.com", "password": "Str0ng!Passw0rd"})
	userID := decodeBody(t, w)["user_id"].(string)

	store.mu.Lock()
	store.users[userID].TwoFactorEnabled = true
	store.users[userID].TwoFactorSecret = "JBSWY3DPEHPK3PXP"
	store.mu.Unlock()

	w = postJSON(t, router, "/auth/login",
		gin.H{"username": "alice", "password": "Str0ng!Passw0rd"})
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	if body["require_2fa"] != true {
		t.Error("missing require_2fa flag")
	}
	if body["user_id"] != userID {
		t.Errorf("challenge carries user_id %v, want %s", body["user_id"], userID)
	}
	if body["access_token"] != nil || body["refresh_token"] != nil {
		t.Error("tokens issued before 2FA verification")
	}
}

func TestVerify2FAHandlerErrors(t *testing.T) {
	store := newMemUserStore()
	router := newAuthTestRouter(store)

	w := postJSON(t, router, "/auth/register",
		gin.H{"username": "alice", "email": "a@x.com", "password": "Str0ng!Passw0rd"})
	userID := decodeBody(t, w)["user_id"].(string)

	t.Run("UnknownUser", func(t *testing.T) {
		w := postJSON(t, router, "/auth/verify-2fa",
			gin.H{"user_id": "missing", "code": "123456"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}
	})

	t.Run("NoSetup", func(t *testing.T) {
		w := postJSON(t, router, "/auth/verify-2fa",
			gin.H{"user_id": userID, "code": "123456"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}
	})

	t.Run("InvalidCode", func(t *testing.T) {
		w := postJSON(t, router, "/auth/setup-2fa", gin.H{"user_id": userID})
		if w.Code != http.StatusOK {
			t.Fatalf("setup failed with status %d", w.Code)
		}

		w = postJSON(t, router, "/auth/verify-2fa",
			gin.H{"user_id": userID, "code": "000000"})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, want 401", w.Code)
		}
	})
}

func TestSetup2FAHandler(t *testing.T) {
	store := newMemUserStore()
	router := newAuthTestRouter(store)

	w := postJSON(t, router, "/auth/register",
		gin.H{"username": "alice", "email": "a@x.com", "password": "Str0ng!Passw0rd"})
	userID := decodeBody(t, w)["user_id"].(string)

	w = postJSON(t, router, "/auth/setup-2fa", gin.H{"user_id": userID})
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["secret"] == nil || body["uri"] == nil {
		t.Error("missing secret or uri")
	}
	codes, ok := body["recovery_codes"].([]interface{})
	if !ok || len(codes) != utils.NumRecoveryCodes {
		t.Errorf("got %d recovery codes, want %d", len(codes), utils.NumRecoveryCodes)
	}
}

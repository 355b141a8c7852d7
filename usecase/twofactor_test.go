package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"main/services"
	"main/utils"
)

func newTestTwoFactorService(store *fakeUserStore) *TwoFactorService {
	return &TwoFactorService{
		Users:  store,
		Tokens: services.NewTokenService("test_secret_key", 7*24*time.Hour),
		Issuer: "TradeWatch",
	}
}

func seedUser(t *testing.T, store *fakeUserStore) string {
	t.Helper()
	svc := newTestUserService(store)
	return registerTestUser(t, svc)
}

func currentCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	return code
}

func staleCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now().Add(-10*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	return code
}

func TestTwoFactorSetup(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	setup, err := svc.Setup(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}

	if setup.Secret == "" {
		t.Error("empty secret")
	}
	if setup.ProvisioningURI == "" {
		t.Error("empty provisioning URI")
	}
	if len(setup.RecoveryCodes) != utils.NumRecoveryCodes {
		t.Errorf("got %d recovery codes, want %d", len(setup.RecoveryCodes), utils.NumRecoveryCodes)
	}

	user, _ := store.FindUser(context.Background(), userID)
	if user.TwoFactorSecret != setup.Secret {
		t.Error("secret not persisted")
	}
	if user.TwoFactorEnabled {
		t.Error("2FA enabled before confirmation")
	}
	for i, code := range setup.RecoveryCodes {
		if user.RecoveryCodes[i] == code {
			t.Fatal("recovery code persisted unhashed")
		}
	}
}

func TestTwoFactorSetupOverwritesPrevious(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	first, err := svc.Setup(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Setup(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}

	if first.Secret == second.Secret {
		t.Error("repeated setup reused the old secret")
	}

	user, _ := store.FindUser(context.Background(), userID)
	if user.TwoFactorSecret != second.Secret {
		t.Error("latest secret not persisted")
	}
}

func TestTwoFactorSetupUnknownUser(t *testing.T) {
	svc := newTestTwoFactorService(newFakeUserStore())
	if _, err := svc.Setup(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTwoFactorEnable(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	setup, err := svc.Setup(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("StaleCode", func(t *testing.T) {
		err := svc.Enable(context.Background(), userID, staleCode(t, setup.Secret))
		if !errors.Is(err, ErrInvalidTwoFactorCode) {
			t.Errorf("expected ErrInvalidTwoFactorCode, got %v", err)
		}

		user, _ := store.FindUser(context.Background(), userID)
		if user.TwoFactorEnabled {
			t.Error("2FA enabled by a stale code")
		}
	})

	t.Run("CurrentCode", func(t *testing.T) {
		if err := svc.Enable(context.Background(), userID, currentCode(t, setup.Secret)); err != nil {
			t.Fatal(err)
		}

		user, _ := store.FindUser(context.Background(), userID)
		if !user.TwoFactorEnabled {
			t.Error("2FA not enabled after valid confirmation")
		}
		if user.TwoFactorSecret != setup.Secret {
			t.Error("confirmation must not regenerate the secret")
		}
		if len(user.RecoveryCodes) != utils.NumRecoveryCodes {
			t.Error("confirmation must not touch recovery codes")
		}
	})
}

func TestTwoFactorEnableWithoutSetup(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	if err := svc.Enable(context.Background(), userID, "123456"); !errors.Is(err, ErrTwoFactorNotSetup) {
		t.Errorf("expected ErrTwoFactorNotSetup, got %v", err)
	}
}

func TestVerifyLoginWithTOTP(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	setup, _ := svc.Setup(context.Background(), userID)
	if err := svc.Enable(context.Background(), userID, currentCode(t, setup.Secret)); err != nil {
		t.Fatal(err)
	}

	result, err := svc.VerifyLogin(context.Background(), userID, currentCode(t, setup.Secret))
	if err != nil {
		t.Fatal(err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("missing tokens after 2FA verification")
	}

	user, _ := store.FindUser(context.Background(), userID)
	if len(user.RecoveryCodes) != utils.NumRecoveryCodes {
		t.Error("a TOTP login must not consume recovery codes")
	}
}

func TestVerifyLoginWithRecoveryCode(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	setup, _ := svc.Setup(context.Background(), userID)
	if err := svc.Enable(context.Background(), userID, currentCode(t, setup.Secret)); err != nil {
		t.Fatal(err)
	}

	recovery := setup.RecoveryCodes[3]

	result, err := svc.VerifyLogin(context.Background(), userID, recovery)
	if err != nil {
		t.Fatal(err)
	}
	if result.AccessToken == "" {
		t.Error("missing tokens after recovery-code login")
	}

	user, _ := store.FindUser(context.Background(), userID)
	if len(user.RecoveryCodes) != utils.NumRecoveryCodes-1 {
		t.Errorf("got %d remaining codes, want %d", len(user.RecoveryCodes), utils.NumRecoveryCodes-1)
	}

	// Single use: the same code must never validate again.
	if _, err := svc.VerifyLogin(context.Background(), userID, recovery); !errors.Is(err, ErrInvalidTwoFactorCode) {
		t.Errorf("consumed recovery code accepted again, err=%v", err)
	}
}

func TestVerifyLoginInvalidCode(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	setup, _ := svc.Setup(context.Background(), userID)
	if err := svc.Enable(context.Background(), userID, currentCode(t, setup.Secret)); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.VerifyLogin(context.Background(), userID, "000000"); !errors.Is(err, ErrInvalidTwoFactorCode) {
		t.Errorf("expected ErrInvalidTwoFactorCode, got %v", err)
	}
}

func TestVerifyLoginWithoutSetup(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	if _, err := svc.VerifyLogin(context.Background(), userID, "123456"); !errors.Is(err, ErrTwoFactorNotSetup) {
		t.Errorf("expected ErrTwoFactorNotSetup, got %v", err)
	}

	if _, err := svc.VerifyLogin(context.Background(), "missing", "123456"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDisableRequiresTOTP(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	setup, _ := svc.Setup(context.Background(), userID)
	if err := svc.Enable(context.Background(), userID, currentCode(t, setup.Secret)); err != nil {
		t.Fatal(err)
	}

	// A recovery code must never disable 2FA: one leaked code would
	// otherwise strip the account's protection for good.
	err := svc.Disable(context.Background(), userID, setup.RecoveryCodes[0])
	if !errors.Is(err, ErrInvalidTwoFactorCode) {
		t.Fatalf("recovery code accepted by Disable, err=%v", err)
	}

	user, _ := store.FindUser(context.Background(), userID)
	if !user.TwoFactorEnabled {
		t.Fatal("2FA disabled by a recovery code")
	}
	if len(user.RecoveryCodes) != utils.NumRecoveryCodes {
		t.Error("failed disable attempt consumed a recovery code")
	}
}

func TestDisableWithTOTP(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	setup, _ := svc.Setup(context.Background(), userID)
	if err := svc.Enable(context.Background(), userID, currentCode(t, setup.Secret)); err != nil {
		t.Fatal(err)
	}

	if err := svc.Disable(context.Background(), userID, currentCode(t, setup.Secret)); err != nil {
		t.Fatal(err)
	}

	user, _ := store.FindUser(context.Background(), userID)
	if user.TwoFactorEnabled {
		t.Error("enabled flag still set")
	}
	if user.TwoFactorSecret != "" {
		t.Error("secret not cleared")
	}
	if len(user.RecoveryCodes) != 0 {
		t.Error("recovery codes not cleared")
	}
}

func TestDisableWithoutSetup(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestTwoFactorService(store)
	userID := seedUser(t, store)

	if err := svc.Disable(context.Background(), userID, "123456"); !errors.Is(err, ErrTwoFactorNotSetup) {
		t.Errorf("expected ErrTwoFactorNotSetup, got %v", err)
	}
}

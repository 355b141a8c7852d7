package config

import (
	"time"

	"main/utils"
)

// SecurityConfig carries the credential-cipher key and JWT settings.
// The cipher key is loaded raw; length validation happens in
// services.NewSecretCipher so a malformed key aborts startup instead
// of silently rotating away from previously encrypted records.
type SecurityConfig struct {
	EncryptionKey []byte
	JWTSecret     string
	RefreshTTL    time.Duration
	TOTPIssuer    string
}

func LoadSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EncryptionKey: []byte(utils.GetEnvAsString("ENCRYPTION_KEY", "")),
		JWTSecret:     utils.GetEnvAsString("JWT_SECRET_KEY", ""),
		RefreshTTL:    time.Duration(utils.GetEnvAsInt("REFRESH_TOKEN_EXPIRATION_TIME", 604800)) * time.Second,
		TOTPIssuer:    utils.GetEnvAsString("TOTP_ISSUER", "TradeWatch"),
	}
}

type CacheConfig struct {
	RedisURL   string
	ScannerTTL time.Duration
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		RedisURL:   utils.GetEnvAsString("REDIS_URL", ""),
		ScannerTTL: utils.GetEnvAsDuration("SCANNER_CACHE_TTL", 2*time.Minute),
	}
}

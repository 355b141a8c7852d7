package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// CipherKeyLength is the AES-256 key size the secret cipher requires.
const CipherKeyLength = 32

var (
	// ErrInvalidCipherKey means the configured encryption key has the
	// wrong length. Callers must treat it as fatal, never substitute
	// a generated key.
	ErrInvalidCipherKey = errors.New("cipher key must be exactly 32 bytes")

	// ErrDecryptionFailed covers tampered, truncated or foreign-key
	// ciphertext.
	ErrDecryptionFailed = errors.New("failed to decrypt ciphertext")
)

// SecretCipher encrypts credential material at rest with AES-256-GCM.
// A fresh 12-byte nonce is generated per call and prepended to the
// ciphertext, so the stored string is base64(nonce || ciphertext).
type SecretCipher struct {
	aead cipher.AEAD
}

func NewSecretCipher(key []byte) (*SecretCipher, error) {
	if len(key) != CipherKeyLength {
		return nil, ErrInvalidCipherKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &SecretCipher{aead: aead}, nil
}

func (s *SecretCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *SecretCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	if len(raw) < s.aead.NonceSize() {
		return "", ErrDecryptionFailed
	}

	nonce, sealed := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

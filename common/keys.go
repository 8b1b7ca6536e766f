package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/hkdf"
)

const sessionKeyInfo = "inkwell session cookie v1"

// SessionKeys derives the cookie authentication key and the cookie encryption
// key from the configured secret. Both are 32 bytes (HMAC-SHA256 / AES-256).
func SessionKeys(secret string) (authKey, encKey []byte, err error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(sessionKeyInfo))

	authKey = make([]byte, 32)
	if _, err := io.ReadFull(r, authKey); err != nil {
		return nil, nil, err
	}
	encKey = make([]byte, 32)
	if _, err := io.ReadFull(r, encKey); err != nil {
		return nil, nil, err
	}
	return authKey, encKey, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

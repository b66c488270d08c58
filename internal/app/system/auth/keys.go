package auth

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// DeriveKey expands secret into an n-byte key bound to info (HKDF-SHA256).
// Distinct info labels give independent keys from one configured secret.
func DeriveKey(secret, info string, n int) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("derive %s key: empty secret", info)
	}
	key := make([]byte, n)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("nursinghub/"+info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", info, err)
	}
	return key, nil
}

// TokenExpiry decides when a session built around token should end.
//
// A JWT's exp claim wins. Otherwise a positive expiresIn (seconds, as sent
// by the login endpoint) is used, and finally now+fallback. The token is
// parsed without verification: the API remains the only verifier, this only
// keeps the cookie from outliving the credential.
func TokenExpiry(token string, expiresIn int, now time.Time, fallback time.Duration) time.Time {
	if token != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				return exp.Time.UTC()
			}
		}
	}
	if expiresIn > 0 {
		return now.Add(time.Duration(expiresIn) * time.Second).UTC()
	}
	if fallback > 0 {
		return now.Add(fallback).UTC()
	}
	return time.Time{}
}

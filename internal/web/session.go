// Package web serves the admin skeleton and the OAuth2-shaped API stubs.
package web

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
)

const sessionVersionPrefix = "v1:"

// Session is the authenticated state sealed into the admin cookie.
type Session struct {
	Account   string    `json:"account"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionCodec seals sessions into ASCII-safe tokens under a server secret.
// Key material never reaches the browser in clear.
type SessionCodec struct {
	secret []byte
}

// NewSessionCodec derives the codec from the configured server secret.
func NewSessionCodec(secret string) (*SessionCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, cerr.Misconfiguration("SERVER_SECRET must be set to serve sessions")
	}
	return &SessionCodec{secret: []byte(secret)}, nil
}

func (c *SessionCodec) aead() (cipher.AEAD, error) {
	key := make([]byte, 32)
	reader := hkdf.New(sha256.New, c.secret, nil, []byte("session-cookie"))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal encrypts a session into a `v1:` + base64url token.
func (c *SessionCodec) Seal(account string, isAdmin bool, ttl time.Duration) (string, error) {
	session := Session{
		Account:   account,
		IsAdmin:   isAdmin,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}

	plaintext, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	buf := make([]byte, 0, len(nonce)+len(ciphertext))
	buf = append(buf, nonce...)
	buf = append(buf, ciphertext...)

	return sessionVersionPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Open decrypts a token and rejects expired sessions. Every failure is
// CouldNotAuthenticate; a forged and an expired cookie look the same.
func (c *SessionCodec) Open(token string) (*Session, error) {
	encoded := strings.TrimPrefix(strings.TrimSpace(token), sessionVersionPrefix)

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, cerr.CouldNotAuthenticate()
	}

	aead, err := c.aead()
	if err != nil {
		return nil, err
	}
	if len(raw) < aead.NonceSize() {
		return nil, cerr.CouldNotAuthenticate()
	}

	plaintext, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], nil)
	if err != nil {
		return nil, cerr.CouldNotAuthenticate()
	}

	var session Session
	if err := json.Unmarshal(plaintext, &session); err != nil {
		return nil, cerr.CouldNotAuthenticate()
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, cerr.CouldNotAuthenticate()
	}

	return &session, nil
}

// Package state issues and checks the anti-forgery state carried through the
// OAuth redirect.
package state

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/planner-api/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.StateIssuer = (*Service)(nil)

const (
	defaultExpiry = 10 * time.Minute
	nonceBytes    = 16
)

// State token errors.
var (
	ErrInvalidState   = errors.New("invalid state token")
	ErrExpiredState   = errors.New("expired state token")
	ErrMalformedState = errors.New("malformed state token")
)

type payload struct {
	Nonce     string    `json:"n"`
	ExpiresAt time.Time `json:"exp"`
}

// Service generates and validates HMAC-signed state tokens.
type Service struct {
	key    []byte
	expiry time.Duration
	now    func() time.Time
}

// NewService creates a state token service with the given HMAC signing key.
func NewService(key []byte) *Service {
	return &Service{
		key:    key,
		expiry: defaultExpiry,
		now:    time.Now,
	}
}

// Expiry returns how long a generated token stays valid.
func (s *Service) Expiry() time.Duration {
	return s.expiry
}

// Generate creates a signed state token with a random nonce.
func (s *Service) Generate() (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	data, err := json.Marshal(payload{
		Nonce:     hex.EncodeToString(nonce),
		ExpiresAt: s.now().Add(s.expiry),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling state payload: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(data)
	return encoded + "." + s.sign(encoded), nil
}

// Validate verifies the signature and expiry of a state token.
func (s *Service) Validate(token string) error {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return ErrMalformedState
	}

	if !hmac.Equal([]byte(sig), []byte(s.sign(encoded))) {
		return ErrInvalidState
	}

	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return ErrMalformedState
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return ErrMalformedState
	}

	if s.now().After(p.ExpiresAt) {
		return ErrExpiredState
	}

	return nil
}

// SetNow overrides the time function (for testing).
func (s *Service) SetNow(fn func() time.Time) {
	s.now = fn
}

func (s *Service) sign(data string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// TokenBytes is the entropy of magic-link and session tokens.
	TokenBytes = 32
)

// MagicLinkService issues the random tokens embedded in login links and the
// opaque tokens bound to admin sessions.
type MagicLinkService struct {
	tokenTTL   time.Duration
	sessionTTL time.Duration
}

func NewMagicLinkService(tokenTTL, sessionTTL time.Duration) *MagicLinkService {
	return &MagicLinkService{
		tokenTTL:   tokenTTL,
		sessionTTL: sessionTTL,
	}
}

func (s *MagicLinkService) GenerateToken() (string, error) {
	return generateSecureToken(TokenBytes)
}

func (s *MagicLinkService) GenerateSessionToken() (string, error) {
	return generateSecureToken(TokenBytes)
}

// TokenExpiresAt returns when a newly issued magic-link token should expire.
func (s *MagicLinkService) TokenExpiresAt() time.Time {
	return time.Now().Add(s.tokenTTL)
}

// SessionExpiresAt returns the fixed expiry of a newly issued session. There
// is no sliding expiry; activity never extends a session.
func (s *MagicLinkService) SessionExpiresAt() time.Time {
	return time.Now().Add(s.sessionTTL)
}

func (s *MagicLinkService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *MagicLinkService) TokenTTL() time.Duration {
	return s.tokenTTL
}

func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// otpEntry is one pending code for one recipient.
type otpEntry struct {
	code    string
	expires time.Time
}

// OTPStore keeps short-lived one-time codes keyed by recipient. Codes are
// single use: a successful verify consumes the entry, and requesting a new
// code replaces any outstanding one for that recipient.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewOTPStore builds a store whose codes expire after ttl.
func NewOTPStore(ttl time.Duration) *OTPStore {
	return &OTPStore{
		entries: make(map[string]otpEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue generates a fresh 6-digit code for the recipient.
func (s *OTPStore) Issue(recipient string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[recipient] = otpEntry{code: code, expires: s.now().Add(s.ttl)}
	return code, nil
}

// Verify consumes the recipient's code when it matches and has not expired.
func (s *OTPStore) Verify(recipient, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[recipient]
	if !ok {
		return false
	}
	if s.now().After(entry.expires) {
		delete(s.entries, recipient)
		return false
	}
	if entry.code != code {
		return false
	}
	delete(s.entries, recipient)
	return true
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coldstore/internal/config"
)

func TestOTPStoreVerify(t *testing.T) {
	store := NewOTPStore(5 * time.Minute)

	code, err := store.Issue("a@b.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	assert.False(t, store.Verify("a@b.com", "000000"), "wrong code must fail")
	assert.True(t, store.Verify("a@b.com", code))
	assert.False(t, store.Verify("a@b.com", code), "codes are single use")
}

func TestOTPStoreExpiry(t *testing.T) {
	store := NewOTPStore(5 * time.Minute)
	current := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	code, err := store.Issue("a@b.com")
	require.NoError(t, err)

	current = current.Add(6 * time.Minute)
	assert.False(t, store.Verify("a@b.com", code), "expired code must fail")
}

func TestOTPStoreKeyedPerRecipient(t *testing.T) {
	store := NewOTPStore(5 * time.Minute)

	codeA, err := store.Issue("a@b.com")
	require.NoError(t, err)
	codeB, err := store.Issue("c@d.com")
	require.NoError(t, err)

	// Concurrent requests for different recipients do not clobber each other.
	assert.True(t, store.Verify("c@d.com", codeB))
	assert.True(t, store.Verify("a@b.com", codeA))
}

type recordingMailer struct {
	to, subject, body string
}

func (m *recordingMailer) SendEmail(_ context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func TestServiceRoundTrip(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		OTPTTL:    5 * time.Minute,
	}, mailer, nil)

	require.NoError(t, svc.RequestOTP(context.Background(), "ops@coldstore.local"))
	assert.Equal(t, "ops@coldstore.local", mailer.to)
	assert.Contains(t, mailer.body, "expires in 5 minutes")

	// The mailed body ends with "code is NNNNNN. It expires..."; recover the
	// code from the store directly instead of parsing prose.
	code := svc.store.entries["ops@coldstore.local"].code

	token, exp, err := svc.VerifyOTP("ops@coldstore.local", code)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@coldstore.local", claims.Email)

	_, _, err = svc.VerifyOTP("ops@coldstore.local", code)
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc := NewService(config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		OTPTTL:    time.Minute,
	}, &recordingMailer{}, nil)

	_, err := svc.ParseToken("not-a-token")
	require.Error(t, err)
}

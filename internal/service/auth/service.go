package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/config"
)

// ErrInvalidOTP is returned when a code is wrong, expired or already used.
var ErrInvalidOTP = errors.New("invalid or expired otp")

// Mailer delivers operator-facing notification emails.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Claims carried by the session token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues one-time codes by email and exchanges them for signed
// session tokens.
type Service struct {
	store    *OTPStore
	mailer   Mailer
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewService wires the auth service from configuration.
func NewService(cfg config.AuthConfig, mailer Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    NewOTPStore(cfg.OTPTTL),
		mailer:   mailer,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
		logger:   logger,
	}
}

// RequestOTP issues a code for the email address and mails it out.
func (s *Service) RequestOTP(ctx context.Context, email string) error {
	code, err := s.store.Issue(email)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your cold-storage admin login code is %s. It expires in %d minutes.",
		code, int(s.store.ttl.Minutes()))
	if err := s.mailer.SendEmail(ctx, email, "Login code", body); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}

	s.logger.Info("otp issued", zap.String("email", email))
	return nil
}

// VerifyOTP exchanges a valid code for a signed bearer token.
func (s *Service) VerifyOTP(email, code string) (string, time.Time, error) {
	if !s.store.Verify(email, code) {
		return "", time.Time{}, ErrInvalidOTP
	}

	exp := time.Now().Add(s.tokenTTL)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, exp, nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

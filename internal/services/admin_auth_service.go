package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vinesrealty/leadsecure-backend/internal/database"
	"github.com/vinesrealty/leadsecure-backend/internal/models"
)

const (
	// ResetTokenBytes is the entropy of a recovery token (hex-encoded)
	ResetTokenBytes = 20

	// DefaultResetTokenTTL is how long a recovery token stays valid
	DefaultResetTokenTTL = 15 * time.Minute
)

var (
	// ErrMissingFields indicates a required input was empty
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidPasscode indicates the supplied current passcode does not match
	ErrInvalidPasscode = errors.New("invalid current passcode")

	// ErrTokenInvalid covers an absent, mismatched, or expired recovery token.
	// The cause is deliberately not distinguished to the caller; it is logged
	// internally.
	ErrTokenInvalid = errors.New("reset token expired or invalid")
)

// CredentialStore is the persistence contract for the admin credential
type CredentialStore interface {
	Get() (*models.AdminCredential, error)
	Seed(passcodeHash string) (bool, error)
	UpdatePasscode(passcodeHash string) error
	SetResetToken(token string, expiresAt time.Time) error
	UpdatePasscodeAndClearToken(passcodeHash string) error
}

// RecoverySender delivers a recovery token out of band. Delivery is
// best-effort; failures are logged, never surfaced.
type RecoverySender interface {
	SendRecoveryToken(to, token string, expiresAt time.Time) error
}

// AdminAuthService owns the passcode lifecycle: validation, change, and the
// recovery-token flow. All credential mutations go through a single mutex so
// concurrent changes and token issue/consume calls never act on stale state.
type AdminAuthService struct {
	creds      CredentialStore
	logger     *logrus.Logger
	bcryptCost int
	tokenTTL   time.Duration

	mailer     RecoverySender
	recoveryTo string

	mu sync.Mutex
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(creds CredentialStore, logger *logrus.Logger, bcryptCost int, tokenTTL time.Duration) *AdminAuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultResetTokenTTL
	}
	return &AdminAuthService{
		creds:      creds,
		logger:     logger,
		bcryptCost: bcryptCost,
		tokenTTL:   tokenTTL,
	}
}

// WithRecoveryMailer enables out-of-band recovery-token delivery
func (s *AdminAuthService) WithRecoveryMailer(mailer RecoverySender, to string) *AdminAuthService {
	s.mailer = mailer
	s.recoveryTo = to
	return s
}

// TokenTTL returns the configured recovery token lifetime
func (s *AdminAuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Bootstrap seeds the credential store with the default passcode when the
// record does not exist yet. Called once at process start.
func (s *AdminAuthService) Bootstrap(defaultPasscode string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPasscode), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash default passcode: %w", err)
	}

	created, err := s.creds.Seed(string(hash))
	if err != nil {
		return err
	}
	if created {
		s.logger.Warn("Admin credential seeded with default passcode; change it before going live")
	}

	return nil
}

// ValidatePasscode reports whether the candidate matches the stored passcode
func (s *AdminAuthService) ValidatePasscode(passcode string) (bool, error) {
	cred, err := s.creds.Get()
	if err != nil {
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasscodeHash), []byte(passcode)); err != nil {
		return false, nil
	}

	return true, nil
}

// ChangePasscode replaces the passcode after verifying the current one.
// Nothing is written on failure.
func (s *AdminAuthService) ChangePasscode(oldPasscode, newPasscode string) error {
	if oldPasscode == "" || newPasscode == "" {
		return ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cred, err := s.creds.Get()
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasscodeHash), []byte(oldPasscode)); err != nil {
		return ErrInvalidPasscode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPasscode), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash passcode: %w", err)
	}

	if err := s.creds.UpdatePasscode(string(hash)); err != nil {
		return err
	}

	s.logger.Info("Admin passcode changed")
	return nil
}

// RequestRecovery issues a fresh recovery token, invalidating any previous
// one. At most one token is outstanding at any time.
func (s *AdminAuthService) RequestRecovery() (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expiresAt := time.Now().UTC().Add(s.tokenTTL)

	if err := s.creds.SetResetToken(token, expiresAt); err != nil {
		return "", time.Time{}, err
	}

	s.logger.WithField("expires_at", expiresAt).Infof("RESET TOKEN: %s", token)

	if s.mailer != nil && s.recoveryTo != "" {
		go func(to, token string, expiresAt time.Time) {
			if err := s.mailer.SendRecoveryToken(to, token, expiresAt); err != nil {
				s.logger.WithError(err).Warn("Failed to email recovery token")
			}
		}(s.recoveryTo, token, expiresAt)
	}

	return token, expiresAt, nil
}

// ResetPasscode consumes an outstanding recovery token and replaces the
// passcode. The token is cleared in the same write as the passcode update,
// so a consumed token can never be replayed.
func (s *AdminAuthService) ResetPasscode(token, newPasscode string) error {
	if token == "" || newPasscode == "" {
		return ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cred, err := s.creds.Get()
	if err != nil {
		return err
	}

	// The caller sees one collapsed error for all three causes; the real
	// reason is logged for operators.
	switch {
	case cred.ResetToken == nil || cred.TokenExpiry == nil:
		s.logger.Warn("Passcode reset rejected: no outstanding token")
		return ErrTokenInvalid
	case time.Now().After(*cred.TokenExpiry):
		s.logger.Warn("Passcode reset rejected: token expired")
		return ErrTokenInvalid
	case token != *cred.ResetToken:
		s.logger.Warn("Passcode reset rejected: token mismatch")
		return ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPasscode), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash passcode: %w", err)
	}

	if err := s.creds.UpdatePasscodeAndClearToken(string(hash)); err != nil {
		return err
	}

	s.logger.Info("Admin passcode reset via recovery token")
	return nil
}

// ensure the sqlx-backed repository satisfies the store contract
var _ CredentialStore = (*database.CredentialRepository)(nil)

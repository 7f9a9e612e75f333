package handlers

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vinesrealty/leadsecure-backend/internal/database"
	"github.com/vinesrealty/leadsecure-backend/internal/models"
	"github.com/vinesrealty/leadsecure-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// memCredentialStore backs the auth service in handler tests
type memCredentialStore struct {
	mu   sync.Mutex
	cred *models.AdminCredential
}

func (s *memCredentialStore) Get() (*models.AdminCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return nil, database.ErrNotFound
	}
	copy := *s.cred
	return &copy, nil
}

func (s *memCredentialStore) Seed(passcodeHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred != nil {
		return false, nil
	}
	s.cred = &models.AdminCredential{ID: 1, PasscodeHash: passcodeHash, UpdatedAt: time.Now().UTC()}
	return true, nil
}

func (s *memCredentialStore) UpdatePasscode(passcodeHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred.PasscodeHash = passcodeHash
	return nil
}

func (s *memCredentialStore) SetResetToken(token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred.ResetToken = &token
	s.cred.TokenExpiry = &expiresAt
	return nil
}

func (s *memCredentialStore) UpdatePasscodeAndClearToken(passcodeHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred.PasscodeHash = passcodeHash
	s.cred.ResetToken = nil
	s.cred.TokenExpiry = nil
	return nil
}

// memLeadStore backs the lead service in handler tests
type memLeadStore struct {
	mu     sync.Mutex
	nextID int64
	leads  map[int64]*models.Lead
}

func newMemLeadStore() *memLeadStore {
	return &memLeadStore{leads: make(map[int64]*models.Lead)}
}

func (s *memLeadStore) Create(input models.LeadInput) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.Phone) == "" {
		return nil, database.ErrValidation
	}

	s.nextID++
	source := input.Source
	if source == "" {
		source = models.DefaultLeadSource
	}
	lead := &models.Lead{
		ID:        s.nextID,
		FullName:  input.FullName,
		Phone:     input.Phone,
		Email:     input.Email,
		Source:    source,
		Status:    models.LeadStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.leads[lead.ID] = lead
	return lead, nil
}

func (s *memLeadStore) List(filter models.LeadFilter) ([]*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Lead
	for _, lead := range s.leads {
		switch filter {
		case models.FilterPending:
			if lead.Status != models.LeadStatusPending {
				continue
			}
		case models.FilterApproved:
			if lead.Status != models.LeadStatusApproved {
				continue
			}
		}
		out = append(out, lead)
	}
	return out, nil
}

func (s *memLeadStore) UpdateStatus(ids []int64, status models.LeadStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) == 0 {
		return 0, database.ErrValidation
	}
	var count int64
	for _, id := range ids {
		lead, ok := s.leads[id]
		if !ok || lead.Status == status {
			continue
		}
		lead.Status = status
		count++
	}
	return count, nil
}

func (s *memLeadStore) FindByID(id int64) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copy := *lead
	return &copy, nil
}

func newTestAuthService(t *testing.T) (*services.AdminAuthService, *memCredentialStore) {
	t.Helper()

	store := &memCredentialStore{}
	svc := services.NewAdminAuthService(store, testLogger(), bcrypt.MinCost, services.DefaultResetTokenTTL)
	require.NoError(t, svc.Bootstrap("vinesadmin"))

	return svc, store
}

func newTestLeadService() (*services.LeadService, *memLeadStore) {
	store := newMemLeadStore()
	return services.NewLeadService(store, nil, testLogger(), services.DefaultNotifyTimeout), store
}

package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vinesrealty/leadsecure-backend/internal/database"
	"github.com/vinesrealty/leadsecure-backend/internal/metrics"
	"github.com/vinesrealty/leadsecure-backend/internal/models"
	"github.com/vinesrealty/leadsecure-backend/pkg/notify"
)

// DefaultNotifyTimeout bounds the fire-and-forget notification call
const DefaultNotifyTimeout = 5 * time.Second

// LeadStore is the persistence contract for lead records
type LeadStore interface {
	Create(input models.LeadInput) (*models.Lead, error)
	List(filter models.LeadFilter) ([]*models.Lead, error)
	UpdateStatus(ids []int64, status models.LeadStatus) (int64, error)
	FindByID(id int64) (*models.Lead, error)
}

// LeadService applies the lead intake and approval workflow. Persistence is
// the source of truth; the notification sink is strictly best-effort.
type LeadService struct {
	repo          LeadStore
	notifier      notify.Notifier
	logger        *logrus.Logger
	notifyTimeout time.Duration
}

// NewLeadService creates a new lead service
func NewLeadService(repo LeadStore, notifier notify.Notifier, logger *logrus.Logger, notifyTimeout time.Duration) *LeadService {
	if notifyTimeout <= 0 {
		notifyTimeout = DefaultNotifyTimeout
	}
	return &LeadService{
		repo:          repo,
		notifier:      notifier,
		logger:        logger,
		notifyTimeout: notifyTimeout,
	}
}

// Submit persists a new lead and forwards it to the notification sink in the
// background. A sink failure never blocks or rolls back the local create.
func (s *LeadService) Submit(input models.LeadInput) (*models.Lead, error) {
	lead, err := s.repo.Create(input)
	if err != nil {
		return nil, err
	}

	metrics.LeadsCreated.Inc()
	go s.notifyLead(lead)

	return lead, nil
}

// List retrieves leads for the given filter
func (s *LeadService) List(filter models.LeadFilter) ([]*models.Lead, error) {
	return s.repo.List(filter)
}

// Approve transitions the listed leads to APPROVED. Unknown ids are skipped;
// approving an already-approved lead is a no-op. Returns the number of leads
// actually transitioned.
func (s *LeadService) Approve(ids []int64) (int64, error) {
	count, err := s.repo.UpdateStatus(ids, models.LeadStatusApproved)
	if err != nil {
		return 0, err
	}

	metrics.LeadsApproved.Add(float64(count))
	s.logger.WithFields(logrus.Fields{
		"requested": len(ids),
		"updated":   count,
	}).Info("Leads approved")

	return count, nil
}

// Toggle flips a single lead between PENDING and APPROVED
func (s *LeadService) Toggle(id int64) (*models.Lead, error) {
	lead, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	next := models.LeadStatusApproved
	if lead.Status == models.LeadStatusApproved {
		next = models.LeadStatusPending
	}

	if _, err := s.repo.UpdateStatus([]int64{id}, next); err != nil {
		return nil, err
	}

	lead.Status = next
	return lead, nil
}

// ImportCSV reads leads from a CSV stream and persists each valid row.
// Expected header: full_name,phone,email,budget,location,property_type,
// purpose,temperature,assigned_client,source (only full_name and phone are
// required; column order is free). Invalid rows are skipped and reported,
// not fatal. Imported rows do not hit the notification sink.
func (s *LeadService) ImportCSV(r io.Reader) (*models.LeadImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	if _, ok := columns["full_name"]; !ok {
		return nil, fmt.Errorf("CSV header is missing full_name: %w", database.ErrValidation)
	}
	if _, ok := columns["phone"]; !ok {
		return nil, fmt.Errorf("CSV header is missing phone: %w", database.ErrValidation)
	}

	summary := &models.LeadImportSummary{BatchID: uuid.New().String()}
	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		input := models.LeadInput{
			FullName:       field(record, "full_name"),
			Phone:          field(record, "phone"),
			Email:          field(record, "email"),
			Budget:         field(record, "budget"),
			Location:       field(record, "location"),
			PropertyType:   field(record, "property_type"),
			Purpose:        field(record, "purpose"),
			Temperature:    field(record, "temperature"),
			AssignedClient: field(record, "assigned_client"),
			Source:         field(record, "source"),
		}

		if _, err := s.repo.Create(input); err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		summary.Imported++
	}

	metrics.LeadsCreated.Add(float64(summary.Imported))
	s.logger.WithFields(logrus.Fields{
		"batch_id": summary.BatchID,
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
	}).Info("Lead CSV import finished")

	return summary, nil
}

func (s *LeadService) notifyLead(lead *models.Lead) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()

	payload := notify.LeadPayload{
		ID:        lead.ID,
		FullName:  lead.FullName,
		Phone:     lead.Phone,
		Email:     lead.Email,
		Source:    lead.Source,
		Status:    string(lead.Status),
		CreatedAt: lead.CreatedAt,
	}

	if err := s.notifier.Notify(ctx, payload); err != nil {
		s.logger.WithFields(logrus.Fields{
			"lead_id": lead.ID,
			"gateway": s.notifier.Name(),
		}).WithError(err).Warn("Lead notification failed")
	}
}

// ensure the sqlx-backed repository satisfies the store contract
var _ LeadStore = (*database.LeadRepository)(nil)

package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vinesrealty/leadsecure-backend/internal/models"
)

// LeadRepository handles lead database operations
type LeadRepository struct {
	db DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create validates and persists a new lead. Status starts at PENDING,
// created_at is fixed at insert time in UTC, source defaults to "Website".
func (r *LeadRepository) Create(input models.LeadInput) (*models.Lead, error) {
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.Phone) == "" {
		return nil, fmt.Errorf("full_name and phone are required: %w", ErrValidation)
	}

	lead := &models.Lead{
		FullName:       input.FullName,
		Phone:          input.Phone,
		Email:          input.Email,
		Budget:         input.Budget,
		Location:       input.Location,
		PropertyType:   input.PropertyType,
		Purpose:        input.Purpose,
		Temperature:    input.Temperature,
		AssignedClient: input.AssignedClient,
		Source:         input.Source,
		Status:         models.LeadStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	if lead.Source == "" {
		lead.Source = models.DefaultLeadSource
	}

	query := r.db.Rebind(`
		INSERT INTO leads
		(full_name, phone, email, budget, location, property_type, purpose, temperature, assigned_client, source, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.db.QueryRow(query,
		lead.FullName, lead.Phone, lead.Email, lead.Budget, lead.Location,
		lead.PropertyType, lead.Purpose, lead.Temperature, lead.AssignedClient,
		lead.Source, lead.Status, lead.CreatedAt,
	).Scan(&lead.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return lead, nil
}

// List retrieves leads matching the filter, most recently created first.
// Date filters are computed in UTC; the week starts on Sunday.
func (r *LeadRepository) List(filter models.LeadFilter) ([]*models.Lead, error) {
	query := `
		SELECT id, full_name, phone, email, budget, location, property_type, purpose,
		       temperature, assigned_client, source, status, created_at
		FROM leads
	`
	var args []interface{}

	switch filter {
	case models.FilterToday:
		query += ` WHERE created_at >= ?`
		args = append(args, startOfDayUTC(time.Now().UTC()))
	case models.FilterWeek:
		query += ` WHERE created_at >= ?`
		args = append(args, startOfWeekUTC(time.Now().UTC()))
	case models.FilterPending:
		query += ` WHERE status = ?`
		args = append(args, models.LeadStatusPending)
	case models.FilterApproved:
		query += ` WHERE status = ?`
		args = append(args, models.LeadStatusApproved)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	var leads []*models.Lead
	if err := r.db.Select(&leads, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, nil
}

// UpdateStatus sets the status on every listed lead that is not already in
// that state. Unknown ids are silently skipped. Returns the number of rows
// actually changed.
func (r *LeadRepository) UpdateStatus(ids []int64, status models.LeadStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("no leads selected: %w", ErrValidation)
	}

	query, args, err := sqlx.In(
		`UPDATE leads SET status = ? WHERE id IN (?) AND status <> ?`,
		status, ids, status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to build status update: %w", err)
	}

	result, err := r.db.Exec(r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update lead status: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return count, nil
}

// FindByID retrieves a single lead
func (r *LeadRepository) FindByID(id int64) (*models.Lead, error) {
	query := r.db.Rebind(`
		SELECT id, full_name, phone, email, budget, location, property_type, purpose,
		       temperature, assigned_client, source, status, created_at
		FROM leads
		WHERE id = ?
	`)

	var lead models.Lead
	if err := r.db.Get(&lead, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("lead %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}

	return &lead, nil
}

func startOfDayUTC(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfWeekUTC(now time.Time) time.Time {
	return startOfDayUTC(now).AddDate(0, 0, -int(now.Weekday()))
}

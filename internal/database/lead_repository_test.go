package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinesrealty/leadsecure-backend/internal/models"
)

var leadColumns = []string{
	"id", "full_name", "phone", "email", "budget", "location", "property_type",
	"purpose", "temperature", "assigned_client", "source", "status", "created_at",
}

func TestCreateLead(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewLeadRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO leads`).
			WithArgs(
				"Jane Doe", "5551234", "", "", "", "", "", "", "",
				models.DefaultLeadSource, models.LeadStatusPending, sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		lead, err := repo.Create(models.LeadInput{FullName: "Jane Doe", Phone: "5551234"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), lead.ID)
		assert.Equal(t, models.LeadStatusPending, lead.Status)
		assert.Equal(t, models.DefaultLeadSource, lead.Source)
		assert.Equal(t, "", lead.Email)
		assert.False(t, lead.CreatedAt.IsZero())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Explicit Source Kept", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO leads`).
			WithArgs(
				"Jane Doe", "5551234", "", "", "", "", "", "", "",
				"Facebook", models.LeadStatusPending, sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

		lead, err := repo.Create(models.LeadInput{FullName: "Jane Doe", Phone: "5551234", Source: "Facebook"})
		require.NoError(t, err)
		assert.Equal(t, "Facebook", lead.Source)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Full Name", func(t *testing.T) {
		lead, err := repo.Create(models.LeadInput{FullName: "  ", Phone: "5551234"})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, lead)

		// nothing must reach the database on validation failure
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Phone", func(t *testing.T) {
		lead, err := repo.Create(models.LeadInput{FullName: "Jane Doe"})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, lead)
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO leads`).
			WillReturnError(fmt.Errorf("database error"))

		lead, err := repo.Create(models.LeadInput{FullName: "Jane Doe", Phone: "5551234"})
		assert.Error(t, err)
		assert.Nil(t, lead)
		assert.Contains(t, err.Error(), "failed to create lead")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListLeads(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewLeadRepository(mockDB)
	now := time.Now().UTC()

	t.Run("All", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM leads ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(leadColumns).
				AddRow(int64(2), "Jane Doe", "5551234", "", "", "", "", "", "", "", "Facebook", "PENDING", now).
				AddRow(int64(1), "John Roe", "5555678", "j@x.com", "", "", "", "", "", "", "Website", "APPROVED", now.Add(-time.Hour)))

		leads, err := repo.List(models.FilterAll)
		require.NoError(t, err)
		require.Len(t, leads, 2)
		assert.Equal(t, "Jane Doe", leads[0].FullName)
		assert.Equal(t, models.LeadStatusApproved, leads[1].Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Pending", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM leads WHERE status =`).
			WithArgs(models.LeadStatusPending).
			WillReturnRows(sqlmock.NewRows(leadColumns).
				AddRow(int64(2), "Jane Doe", "5551234", "", "", "", "", "", "", "", "Website", "PENDING", now))

		leads, err := repo.List(models.FilterPending)
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, models.LeadStatusPending, leads[0].Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Today Uses UTC Midnight", func(t *testing.T) {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT (.+) FROM leads WHERE created_at >=`).
			WithArgs(midnight).
			WillReturnRows(sqlmock.NewRows(leadColumns))

		leads, err := repo.List(models.FilterToday)
		require.NoError(t, err)
		assert.Empty(t, leads)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Week Starts Sunday", func(t *testing.T) {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		sunday := midnight.AddDate(0, 0, -int(now.Weekday()))

		mock.ExpectQuery(`SELECT (.+) FROM leads WHERE created_at >=`).
			WithArgs(sunday).
			WillReturnRows(sqlmock.NewRows(leadColumns))

		_, err := repo.List(models.FilterWeek)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM leads`).
			WillReturnError(fmt.Errorf("database error"))

		leads, err := repo.List(models.FilterAll)
		assert.Error(t, err)
		assert.Nil(t, leads)
		assert.Contains(t, err.Error(), "failed to list leads")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateLeadStatus(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewLeadRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE leads SET status =`).
			WithArgs(models.LeadStatusApproved, int64(1), int64(2), models.LeadStatusApproved).
			WillReturnResult(sqlmock.NewResult(0, 2))

		count, err := repo.UpdateStatus([]int64{1, 2}, models.LeadStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Ids Skipped", func(t *testing.T) {
		mock.ExpectExec(`UPDATE leads SET status =`).
			WithArgs(models.LeadStatusApproved, int64(1), int64(999), models.LeadStatusApproved).
			WillReturnResult(sqlmock.NewResult(0, 1))

		count, err := repo.UpdateStatus([]int64{1, 999}, models.LeadStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Approved Counts Zero", func(t *testing.T) {
		mock.ExpectExec(`UPDATE leads SET status =`).
			WithArgs(models.LeadStatusApproved, int64(1), models.LeadStatusApproved).
			WillReturnResult(sqlmock.NewResult(0, 0))

		count, err := repo.UpdateStatus([]int64{1}, models.LeadStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Ids", func(t *testing.T) {
		count, err := repo.UpdateStatus(nil, models.LeadStatusApproved)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, count)
	})
}

func TestFindLeadByID(t *testing.T) {
	mockDB, mock := newMockDatabase(t)
	repo := NewLeadRepository(mockDB)
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM leads WHERE id =`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(leadColumns).
				AddRow(int64(7), "Jane Doe", "5551234", "", "", "", "", "", "", "", "Website", "PENDING", now))

		lead, err := repo.FindByID(7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), lead.ID)
		assert.Equal(t, "Jane Doe", lead.FullName)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM leads WHERE id =`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(leadColumns))

		lead, err := repo.FindByID(404)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, lead)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vinesrealty/leadsecure-backend/internal/models"
)

// credentialID is the fixed primary key of the single admin credential row
const credentialID = 1

// CredentialRepository handles admin credential database operations
type CredentialRepository struct {
	db DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Get retrieves the admin credential record
func (r *CredentialRepository) Get() (*models.AdminCredential, error) {
	query := r.db.Rebind(`
		SELECT id, passcode_hash, reset_token, token_expiry, updated_at
		FROM admin_credential
		WHERE id = ?
	`)

	var cred models.AdminCredential
	err := r.db.QueryRow(query, credentialID).Scan(
		&cred.ID, &cred.PasscodeHash, &cred.ResetToken, &cred.TokenExpiry, &cred.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin credential: %w", err)
	}

	return &cred, nil
}

// Seed inserts the credential row if it does not exist yet. Returns true
// when a new row was created.
func (r *CredentialRepository) Seed(passcodeHash string) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO admin_credential (id, passcode_hash, reset_token, token_expiry, updated_at)
		VALUES (?, ?, NULL, NULL, ?)
		ON CONFLICT (id) DO NOTHING
	`)

	result, err := r.db.Exec(query, credentialID, passcodeHash, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to seed admin credential: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// UpdatePasscode replaces the stored passcode hash
func (r *CredentialRepository) UpdatePasscode(passcodeHash string) error {
	query := r.db.Rebind(`
		UPDATE admin_credential
		SET passcode_hash = ?, updated_at = ?
		WHERE id = ?
	`)

	if _, err := r.db.Exec(query, passcodeHash, time.Now().UTC(), credentialID); err != nil {
		return fmt.Errorf("failed to update passcode: %w", err)
	}

	return nil
}

// SetResetToken stores a new outstanding recovery token, overwriting any
// previous one. Token and expiry are always written together.
func (r *CredentialRepository) SetResetToken(token string, expiresAt time.Time) error {
	query := r.db.Rebind(`
		UPDATE admin_credential
		SET reset_token = ?, token_expiry = ?, updated_at = ?
		WHERE id = ?
	`)

	if _, err := r.db.Exec(query, token, expiresAt, time.Now().UTC(), credentialID); err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	return nil
}

// UpdatePasscodeAndClearToken replaces the passcode hash and clears the
// outstanding recovery token in one statement, so the token can never
// survive a successful reset.
func (r *CredentialRepository) UpdatePasscodeAndClearToken(passcodeHash string) error {
	query := r.db.Rebind(`
		UPDATE admin_credential
		SET passcode_hash = ?, reset_token = NULL, token_expiry = NULL, updated_at = ?
		WHERE id = ?
	`)

	if _, err := r.db.Exec(query, passcodeHash, time.Now().UTC(), credentialID); err != nil {
		return fmt.Errorf("failed to reset passcode: %w", err)
	}

	return nil
}

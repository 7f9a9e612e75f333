package database

import "fmt"

const leadsTablePostgres = `
	CREATE TABLE IF NOT EXISTS leads (
		id BIGSERIAL PRIMARY KEY,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		budget TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		property_type TEXT NOT NULL DEFAULT '',
		purpose TEXT NOT NULL DEFAULT '',
		temperature TEXT NOT NULL DEFAULT '',
		assigned_client TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'Website',
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL
	)
`

const leadsTableSQLite = `
	CREATE TABLE IF NOT EXISTS leads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		budget TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		property_type TEXT NOT NULL DEFAULT '',
		purpose TEXT NOT NULL DEFAULT '',
		temperature TEXT NOT NULL DEFAULT '',
		assigned_client TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'Website',
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMP NOT NULL
	)
`

const credentialTablePostgres = `
	CREATE TABLE IF NOT EXISTS admin_credential (
		id BIGINT PRIMARY KEY,
		passcode_hash TEXT NOT NULL,
		reset_token TEXT,
		token_expiry TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

const credentialTableSQLite = `
	CREATE TABLE IF NOT EXISTS admin_credential (
		id INTEGER PRIMARY KEY,
		passcode_hash TEXT NOT NULL,
		reset_token TEXT,
		token_expiry TIMESTAMP,
		updated_at TIMESTAMP NOT NULL
	)
`

// Migrate creates the schema if it does not exist yet
func Migrate(db DB) error {
	leads, credential := leadsTableSQLite, credentialTableSQLite
	if db.DriverName() == "postgres" {
		leads, credential = leadsTablePostgres, credentialTablePostgres
	}

	if _, err := db.Exec(leads); err != nil {
		return fmt.Errorf("failed to create leads table: %w", err)
	}
	if _, err := db.Exec(credential); err != nil {
		return fmt.Errorf("failed to create admin_credential table: %w", err)
	}

	return nil
}

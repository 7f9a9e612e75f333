package models

import "time"

// AdminCredential is the single admin passcode record. ResetToken and
// TokenExpiry are both set while a recovery is in flight and both nil
// otherwise; they are always written together.
type AdminCredential struct {
	ID           int64      `json:"-" db:"id"`
	PasscodeHash string     `json:"-" db:"passcode_hash"`
	ResetToken   *string    `json:"-" db:"reset_token"`
	TokenExpiry  *time.Time `json:"-" db:"token_expiry"`
	UpdatedAt    time.Time  `json:"-" db:"updated_at"`
}

// ValidatePasscodeRequest is the passcode validation payload
type ValidatePasscodeRequest struct {
	Passcode string `json:"passcode"`
}

// ChangePasscodeRequest is the passcode change payload
type ChangePasscodeRequest struct {
	OldPasscode string `json:"oldPasscode"`
	NewPasscode string `json:"newPasscode"`
}

// ResetPasscodeRequest is the recovery-token consumption payload
type ResetPasscodeRequest struct {
	Token       string `json:"token"`
	NewPasscode string `json:"newPasscode"`
}

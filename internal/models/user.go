// Package models defines data structures for NexTrade
package models

import (
	"regexp"
	"time"
)

// KYCStatus tracks the verification state of a user's KYC submission.
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusVerified KYCStatus = "verified"
	KYCStatusRejected KYCStatus = "rejected"
)

// panPattern matches Indian PAN numbers (e.g. "ABCDE1234F").
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// ValidPANNumber returns true if pan is a well-formed PAN number.
func ValidPANNumber(pan string) bool {
	return panPattern.MatchString(pan)
}

// User represents a registered account. The wallet balance lives in the
// ledger store, not here, so wallet mutations commit atomically with
// positions and ledger records.
type User struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PANNumber    string    `json:"pan_number"`
	KYCStatus    KYCStatus `json:"kyc_status"`
	IsActive     bool      `json:"is_active"`
	LastLogin    time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

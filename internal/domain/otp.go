package domain

import "time"

// OTPEntry is the single live one-time password for an email address.
// Revision changes on every write and lets optimistic stores detect races.
type OTPEntry struct {
	Email             string    `json:"email" dynamodbav:"email"`
	Code              string    `json:"code" dynamodbav:"code"`
	ExpiresAt         time.Time `json:"expires_at" dynamodbav:"expires_at_time"`
	AttemptsRemaining int       `json:"attempts_remaining" dynamodbav:"attempts_remaining"`
	Revision          string    `json:"revision" dynamodbav:"revision"`
}

// Expired reports whether the entry is past its expiry at now.
func (e *OTPEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// OTPAction tells an OTP store what to do with an entry after an update.
type OTPAction int

const (
	OTPKeep OTPAction = iota
	OTPSave
	OTPDelete
)

// OTPUpdateFunc inspects the current entry for an email (nil when none) and
// decides what the store does with it. It may mutate e before returning
// OTPSave. Optimistic stores can call it more than once for one update, each
// time with a freshly loaded entry.
type OTPUpdateFunc func(e *OTPEntry) (OTPAction, error)

package domain

import "time"

// Session is what a successful OTP verify or password login hands back.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

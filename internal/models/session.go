package models

import "time"

type Session struct {
	ID        string
	// Empty for guest sessions opened with the shared passphrase.
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

func (s Session) Guest() bool {
	return s.UserID == ""
}

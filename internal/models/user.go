package models

import "time"

type User struct {
	ID        string
	Username  string
	Email     string
	// Argon2id encoded hash.
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

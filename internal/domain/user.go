package domain

import "time"

// User is a registered account as persisted by any UserStore backend.
type User struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Elo          int       `json:"elo"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the trusted pair handed to the multiplayer core after token
// verification. The core itself performs no credential checks.
type Identity struct {
	UserID   string
	Username string
}

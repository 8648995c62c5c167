package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Avatar points at an object in the avatar bucket. PublicID is the object key
// and is empty for avatars that live elsewhere (social login pictures).
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// User is both the persisted account and the session snapshot kept in Redis.
// PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       Avatar    `json:"avatar"`
	Role         UserRole  `json:"role"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Candidate is a registration waiting for its activation code.
type Candidate struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
}

package models

import "time"

// User is a row of the credential store.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the part of a User that may leave the server.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public strips everything but the id and email.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Email: u.Email}
}

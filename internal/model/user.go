// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account. PasswordHash holds a bcrypt hash; the
// plaintext password is never stored.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}

// Owner is the projection of a User attached to recipes on read.
type Owner struct {
	ID    string
	Name  string
	Email string
}

// ToOwner returns the public projection of the user.
func (u *User) ToOwner() *Owner {
	return &Owner{ID: u.ID, Name: u.Name, Email: u.Email}
}

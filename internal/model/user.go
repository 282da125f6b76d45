// Package model defines domain entities for the application.
package model

import "github.com/google/uuid"

// User owns payments and bills. Password always holds a hash, never the
// plaintext the client sent.
type User struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
}

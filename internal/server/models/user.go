// Package models defines the persistent and session records shared by
// repositories, services, and handlers.
package models

import "time"

// User is an identity record. PasswordHash holds the bcrypt hash of the
// password; the plaintext is never persisted. Username and Email are each
// globally unique, enforced at registration and backed by unique indexes.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a recipient profile embedded in a user record. The id is
// generated per user and is the stable handle for update/delete.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Pin          string    `json:"pin"`
	Contacts     []Contact `json:"contacts"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultContacts returns the two contacts every new account starts with.
// Ids are generated so update/delete works on them like any other contact.
func DefaultContacts() []Contact {
	return []Contact{
		{ID: uuid.New().String(), Name: "mom", Email: "", Color: "#red", Icon: "woman"},
		{ID: uuid.New().String(), Name: "dad", Email: "", Color: "#blue", Icon: "man"},
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

package storage

import (
	"context"

	"github.com/vieerr/dearmom-backend/internal/models"
)

// UserStore is the durable store for user records and their embedded
// contact lists. Lookups return (nil, nil) when no record matches.
//
// Contact mutations are atomic with respect to each other on the same
// record: two concurrent mutations touching different contact ids both
// apply, and a same-id race resolves last-write-wins. Every mutation
// returns the entire updated record so callers can decide whether a held
// token snapshot needs a resync.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash, pin string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// AppendContact pushes one contact onto the user's list.
	AppendContact(ctx context.Context, userID string, contact models.Contact) (*models.User, error)

	// RemoveContact pulls the contact with the given id. A contact id with
	// no match is still a full success with the list unchanged; only a
	// missing user yields (nil, nil).
	RemoveContact(ctx context.Context, userID, contactID string) (*models.User, error)

	// ReplaceContact swaps the contact with the given id for the
	// replacement. (nil, nil) when either the user or the contact is absent.
	ReplaceContact(ctx context.Context, userID, contactID string, contact models.Contact) (*models.User, error)
}

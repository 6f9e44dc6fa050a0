package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vieerr/dearmom-backend/internal/auth"
	"github.com/vieerr/dearmom-backend/internal/models"
	"github.com/vieerr/dearmom-backend/internal/storage"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers verification failure and a token whose user
	// no longer resolves.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrContactNotFound is returned when a user or contact id does not resolve.
	ErrContactNotFound = errors.New("user or contact not found")
)

// UserService owns registration, login, token refresh and contact CRUD.
//
// Tokens carry a snapshot of the contact list; contact mutations write to
// the store without re-issuing a token, so a held token goes stale the
// moment a mutation succeeds. Refresh is the only operation that heals it.
type UserService struct {
	store  storage.UserStore
	tokens *auth.JWTManager
}

func NewUserService(store storage.UserStore, tokens *auth.JWTManager) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
	}
}

// Register creates the user with the two seeded contacts and returns a
// token. The token's contacts claim is an empty list, not the seeded
// defaults; clients see the seeds after their first refresh. Kept as the
// frontend expects it.
func (s *UserService) Register(ctx context.Context, name, email, password, pin string) (string, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	user, err := s.store.CreateUser(ctx, name, email, passwordHash, pin)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return s.tokens.IssueToken(user.ID, []models.Contact{}, user.Pin)
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.IssueToken(user.ID, user.Contacts, user.Pin)
}

// Refresh verifies the inbound token, re-reads the stored record and issues
// a new token stamped with the current contacts and pin.
func (s *UserService) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", ErrInvalidToken
	}

	return s.tokens.IssueToken(user.ID, user.Contacts, user.Pin)
}

// AddContact appends the contact under a freshly generated id and returns
// the full updated record. No new token is issued; the caller's held token
// stays stale until it refreshes.
func (s *UserService) AddContact(ctx context.Context, userID string, contact models.Contact) (*models.User, error) {
	contact.ID = uuid.New().String()

	user, err := s.store.AppendContact(ctx, userID, contact)
	if err != nil {
		return nil, fmt.Errorf("failed to add contact: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// RemoveContact pulls the contact by id. A contact id with no match is a
// full success with the list unchanged; only an unresolvable user fails.
func (s *UserService) RemoveContact(ctx context.Context, userID, contactID string) (*models.User, error) {
	user, err := s.store.RemoveContact(ctx, userID, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove contact: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateContact replaces the contact's attributes. The contact keeps its id
// so the handle stays stable across updates.
func (s *UserService) UpdateContact(ctx context.Context, userID, contactID string, contact models.Contact) (*models.User, error) {
	contact.ID = contactID

	user, err := s.store.ReplaceContact(ctx, userID, contactID, contact)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	if user == nil {
		return nil, ErrContactNotFound
	}

	return user, nil
}

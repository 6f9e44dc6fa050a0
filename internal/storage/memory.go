package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vieerr/dearmom-backend/internal/models"
)

// MemoryStore is an in-memory UserStore used in tests and local runs
// without a database. The single mutex gives the same atomicity guarantees
// the SQL statements give the postgres store.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*models.User),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, name, email, passwordHash, pin string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Pin:          pin,
		Contacts:     models.DefaultContacts(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.users[user.ID] = user
	return cloneUser(user), nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(user), nil
}

func (s *MemoryStore) AppendContact(ctx context.Context, userID string, contact models.Contact) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}

	user.Contacts = append(user.Contacts, contact)
	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

func (s *MemoryStore) RemoveContact(ctx context.Context, userID, contactID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}

	kept := user.Contacts[:0]
	for _, c := range user.Contacts {
		if c.ID != contactID {
			kept = append(kept, c)
		}
	}
	user.Contacts = kept
	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

func (s *MemoryStore) ReplaceContact(ctx context.Context, userID, contactID string, contact models.Contact) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}

	for i, c := range user.Contacts {
		if c.ID == contactID {
			user.Contacts[i] = contact
			user.UpdatedAt = time.Now()
			return cloneUser(user), nil
		}
	}

	return nil, nil
}

func cloneUser(user *models.User) *models.User {
	clone := *user
	clone.Contacts = make([]models.Contact, len(user.Contacts))
	copy(clone.Contacts, user.Contacts)
	return &clone
}

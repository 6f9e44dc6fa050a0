package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vieerr/dearmom-backend/internal/database"
	"github.com/vieerr/dearmom-backend/internal/models"
)

const userColumns = `id, name, email, password_hash, pin, contacts, created_at, updated_at`

type PostgresStore struct {
	db *database.Manager
}

func NewPostgresStore(db *database.Manager) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

func (s *PostgresStore) CreateUser(ctx context.Context, name, email, passwordHash, pin string) (*models.User, error) {
	contacts, err := json.Marshal(models.DefaultContacts())
	if err != nil {
		return nil, fmt.Errorf("failed to encode default contacts: %w", err)
	}

	now := time.Now()

	query := `
		INSERT INTO users (id, name, email, password_hash, pin, contacts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	row := s.db.Pool().QueryRow(ctx, query,
		uuid.New().String(),
		name,
		email,
		passwordHash,
		pin,
		contacts,
		now,
		now,
	)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(s.db.Pool().QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.Pool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (s *PostgresStore) AppendContact(ctx context.Context, userID string, contact models.Contact) (*models.User, error) {
	encoded, err := json.Marshal(contact)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contact: %w", err)
	}

	// jsonb || appends an object as a single array element, so the push
	// happens inside one UPDATE and cannot race another mutation.
	query := `
		UPDATE users
		SET contacts = contacts || $2::jsonb,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(s.db.Pool().QueryRow(ctx, query, userID, encoded))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append contact: %w", err)
	}

	return user, nil
}

func (s *PostgresStore) RemoveContact(ctx context.Context, userID, contactID string) (*models.User, error) {
	// Rebuilding the array in a single UPDATE keeps the pull atomic. An id
	// with no match rewrites the same array, which is the contract: remove
	// of an absent contact is a full success.
	query := `
		UPDATE users
		SET contacts = COALESCE(
				(SELECT jsonb_agg(c) FROM jsonb_array_elements(contacts) AS c
				 WHERE c->>'id' <> $2),
				'[]'::jsonb),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(s.db.Pool().QueryRow(ctx, query, userID, contactID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to remove contact: %w", err)
	}

	return user, nil
}

func (s *PostgresStore) ReplaceContact(ctx context.Context, userID, contactID string, contact models.Contact) (*models.User, error) {
	encoded, err := json.Marshal(contact)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contact: %w", err)
	}

	// The containment guard makes a missing contact id fall through to
	// ErrNoRows, same as a missing user.
	query := `
		UPDATE users
		SET contacts = (SELECT jsonb_agg(CASE WHEN c->>'id' = $2 THEN $3::jsonb ELSE c END)
				FROM jsonb_array_elements(contacts) AS c),
			updated_at = NOW()
		WHERE id = $1
		AND contacts @> jsonb_build_array(jsonb_build_object('id', $2::text))
		RETURNING ` + userColumns

	user, err := scanUser(s.db.Pool().QueryRow(ctx, query, userID, contactID, encoded))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to replace contact: %w", err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var contacts []byte

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Pin,
		&contacts,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(contacts, &user.Contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}

	return &user, nil
}

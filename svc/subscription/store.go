package subscription

import (
	"context"
	"errors"

	"github.com/tgpaywall/tgpaywall/pkg/pg"
)

// Store persists UserAccess rows.
type Store interface {
	// FindUserAccess returns ErrNotFound when the user has no row yet.
	FindUserAccess(ctx context.Context, telegramUserID string) (UserAccess, error)
	// UpsertUserAccess creates the row or updates IsActive and UpdatedAt.
	UpsertUserAccess(ctx context.Context, telegramUserID string, isActive bool) (UserAccess, error)
}

// PGStore is the PostgreSQL Store backed by the user_access table.
type PGStore struct {
	db pg.DB
}

// NewPGStore returns a Store backed by the user_access table.
func NewPGStore(db pg.DB) *PGStore {
	return &PGStore{db: db}
}

const findUserAccessQuery = `
SELECT telegram_user_id, is_active, created_at, updated_at
FROM user_access
WHERE telegram_user_id = $1`

// FindUserAccess returns ErrNotFound when the user has no row.
func (s *PGStore) FindUserAccess(ctx context.Context, telegramUserID string) (UserAccess, error) {
	var ua UserAccess
	err := s.db.QueryRow(ctx, findUserAccessQuery, telegramUserID).
		Scan(&ua.TelegramUserID, &ua.IsActive, &ua.CreatedAt, &ua.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return UserAccess{}, ErrNotFound
		}
		return UserAccess{}, err
	}
	return ua, nil
}

// Concurrent upserts for the same user are resolved by the primary key;
// the last writer wins.
const upsertUserAccessQuery = `
INSERT INTO user_access (telegram_user_id, is_active)
VALUES ($1, $2)
ON CONFLICT (telegram_user_id) DO UPDATE
SET is_active = EXCLUDED.is_active, updated_at = now()
RETURNING telegram_user_id, is_active, created_at, updated_at`

// UpsertUserAccess inserts or updates the row and returns it.
func (s *PGStore) UpsertUserAccess(ctx context.Context, telegramUserID string, isActive bool) (UserAccess, error) {
	if telegramUserID == "" {
		return UserAccess{}, ErrEmptyUserID
	}

	var ua UserAccess
	err := s.db.QueryRow(ctx, upsertUserAccessQuery, telegramUserID, isActive).
		Scan(&ua.TelegramUserID, &ua.IsActive, &ua.CreatedAt, &ua.UpdatedAt)
	if err != nil {
		return UserAccess{}, errors.Join(errors.New("subscription: upsert user access"), err)
	}
	return ua, nil
}

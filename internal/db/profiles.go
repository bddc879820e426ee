package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/profile-consolidator/internal/types"
)

// ProfileUnitOfWork wraps one transaction over the user_profiles table. The
// orchestrator drives the classic add/commit/refresh/rollback contract; each
// consolidation call gets its own unit of work, never shared across requests.
type ProfileUnitOfWork struct {
	tx pgx.Tx

	// Storage-assigned fields captured by Add, applied to the Profile by
	// Refresh after a successful commit.
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	staged    bool
	done      bool
}

// BeginProfileSave opens a unit of work for persisting one profile.
func (db *DB) BeginProfileSave(ctx context.Context) (*ProfileUnitOfWork, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ProfileUnitOfWork{tx: tx}, nil
}

// Add stages the profile inside the transaction. Profiles are keyed uniquely
// per user; a concurrent consolidation for the same user resolves to
// last-write-wins through the upsert.
func (u *ProfileUnitOfWork) Add(ctx context.Context, p *types.Profile) error {
	sections, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	err = u.tx.QueryRow(ctx,
		`INSERT INTO user_profiles (user_id, sections)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET sections = $2, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		p.UserID, sections,
	).Scan(&u.id, &u.createdAt, &u.updatedAt)
	if err != nil {
		return fmt.Errorf("failed to stage profile: %w", err)
	}

	u.staged = true
	return nil
}

// Commit makes the staged profile durable.
func (u *ProfileUnitOfWork) Commit(ctx context.Context) error {
	if !u.staged {
		return fmt.Errorf("commit called before add")
	}
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}
	u.done = true
	return nil
}

// Refresh copies the storage-assigned id and timestamps onto the profile.
// Valid only after a successful Commit.
func (u *ProfileUnitOfWork) Refresh(ctx context.Context, p *types.Profile) error {
	if !u.done {
		return fmt.Errorf("refresh called before commit")
	}
	p.ID = u.id
	p.CreatedAt = u.createdAt
	p.UpdatedAt = u.updatedAt
	return nil
}

// Rollback abandons the staged profile. Safe to call after a failed Commit.
func (u *ProfileUnitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	if err := u.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to roll back profile save: %w", err)
	}
	return nil
}

// GetProfile returns the stored profile for a user, or nil when none exists.
func (db *DB) GetProfile(ctx context.Context, userID int64) (*types.Profile, error) {
	var sections []byte
	var id uuid.UUID
	var createdAt, updatedAt time.Time

	err := db.pool.QueryRow(ctx,
		`SELECT id, sections, created_at, updated_at FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&id, &sections, &createdAt, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var p types.Profile
	if err := json.Unmarshal(sections, &p); err != nil {
		return nil, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	p.ID = id
	p.UserID = userID
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return &p, nil
}

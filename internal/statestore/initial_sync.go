package statestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const initialSyncDoneKey = "initial_sync_done"

// GetInitialSyncDone reports whether the initial dual-non-empty reconcile
// (spec.md §4.3) has already run against this state database. Absent a
// row, it returns false (a fresh database has never completed initial
// sync).
func (s *Store) GetInitialSyncDone(ctx context.Context) (bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM engine_state WHERE key = ?`, initialSyncDoneKey,
	).Scan(&value)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("statestore: reading initial_sync_done: %w", err)
	}

	return value == "true", nil
}

// SetInitialSyncDone persists the initial_sync_done flag, set true once
// ActionInitialSyncCompleted has been executed.
func (s *Store) SetInitialSyncDone(ctx context.Context, done bool) error {
	value := "false"
	if done {
		value = "true"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO engine_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, initialSyncDoneKey, value)
	if err != nil {
		return fmt.Errorf("statestore: writing initial_sync_done: %w", err)
	}

	return nil
}

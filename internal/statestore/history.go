package statestore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConflictRecord is one resolved conflict, as listed by the `kmlsync
// conflicts` CLI surface (SPEC_FULL.md §5 supplements spec.md's
// conflict-resolution actions with a queryable history). Records exist only
// where a caller writes them with RecordConflict; the engine and the
// conflict resolver do not call it.
type ConflictRecord struct {
	ID         string
	Kind       string
	FileName   string
	Detail     string
	ResolvedAt time.Time
}

// RecordConflict appends a resolved-conflict entry to the history log.
func (s *Store) RecordConflict(ctx context.Context, kind, fileName, detail string, resolvedAt time.Time) error {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conflict_history (id, kind, file_name, detail, resolved_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, kind, fileName, detail, resolvedAt.UTC())
	if err != nil {
		return fmt.Errorf("statestore: recording conflict history: %w", err)
	}

	return nil
}

// ListConflictHistory returns resolved conflicts newest-first.
func (s *Store) ListConflictHistory(ctx context.Context) ([]ConflictRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, file_name, detail, resolved_at
		FROM conflict_history
		ORDER BY resolved_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("statestore: listing conflict history: %w", err)
	}
	defer rows.Close()

	var records []ConflictRecord

	for rows.Next() {
		var r ConflictRecord
		if err := rows.Scan(&r.ID, &r.Kind, &r.FileName, &r.Detail, &r.ResolvedAt); err != nil {
			return nil, fmt.Errorf("statestore: scanning conflict history row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("statestore: iterating conflict history: %w", err)
	}

	return records, nil
}

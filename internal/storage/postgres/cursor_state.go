package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"feedhub/internal/domain"
)

// CursorStateStore persists the since cursor of every polled account.
type CursorStateStore struct {
	db *sqlx.DB
}

func NewCursorStateStore(db *sqlx.DB) *CursorStateStore {
	return &CursorStateStore{db: db}
}

func (s *CursorStateStore) Get(ctx context.Context, accountID string) (*domain.CursorState, error) {
	var state domain.CursorState
	query := `
		SELECT id, account_id, since_cursor, last_polled_at, total_polled
		FROM cursor_state
		WHERE account_id = $1`

	err := sqlx.GetContext(ctx, Executor(ctx, s.db), &state, query, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		// never polled
		return &domain.CursorState{
			AccountID:    accountID,
			LastPolledAt: time.Time{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cursor state: %w", err)
	}
	return &state, nil
}

func (s *CursorStateStore) Update(ctx context.Context, state *domain.CursorState) error {
	query := `
		INSERT INTO cursor_state (account_id, since_cursor, last_polled_at, total_polled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET
			since_cursor = EXCLUDED.since_cursor,
			last_polled_at = EXCLUDED.last_polled_at,
			total_polled = EXCLUDED.total_polled`

	_, err := Executor(ctx, s.db).ExecContext(ctx, query,
		state.AccountID,
		state.Since,
		state.LastPolledAt,
		state.TotalPolled,
	)
	if err != nil {
		return fmt.Errorf("update cursor state: %w", err)
	}
	return nil
}

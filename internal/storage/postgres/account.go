package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"feedhub/internal/domain"
)

// AccountStore reads linked accounts. Rows are written by the account
// service that owns the credentials.
type AccountStore struct {
	db *sqlx.DB
}

func NewAccountStore(db *sqlx.DB) *AccountStore {
	return &AccountStore{db: db}
}

const accountColumns = `id, user_id, provider, external_id, credentials, rank, last_access_at`

// FindForUser returns the accounts of userID among ids. Missing or foreign
// IDs are simply absent from the result.
func (s *AccountStore) FindForUser(ctx context.Context, userID string, ids []string) ([]domain.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND id = ANY($2)
		ORDER BY rank, id`

	var accounts []domain.Account
	if err := sqlx.SelectContext(ctx, Executor(ctx, s.db), &accounts, query, userID, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	return accounts, nil
}

// ListForUser returns every account of userID ordered by rank.
func (s *AccountStore) ListForUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY rank, id`

	var accounts []domain.Account
	if err := sqlx.SelectContext(ctx, Executor(ctx, s.db), &accounts, query, userID); err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	return accounts, nil
}

// ListPollable returns the accounts of the given providers across all users,
// least recently accessed first.
func (s *AccountStore) ListPollable(ctx context.Context, providers []domain.ProviderName) ([]domain.Account, error) {
	if len(providers) == 0 {
		return nil, nil
	}
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = string(p)
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE provider = ANY($1)
		ORDER BY last_access_at NULLS FIRST, id`

	var accounts []domain.Account
	if err := sqlx.SelectContext(ctx, Executor(ctx, s.db), &accounts, query, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("select pollable accounts: %w", err)
	}
	return accounts, nil
}

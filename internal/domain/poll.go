package domain

import "time"

// CursorState is the persisted polling position of one account.
type CursorState struct {
	ID           int64     `db:"id"`
	AccountID    string    `db:"account_id"`
	Since        string    `db:"since_cursor"`
	LastPolledAt time.Time `db:"last_polled_at"`
	TotalPolled  int64     `db:"total_polled"`
}

// PollStats holds statistics about a poll run.
type PollStats struct {
	Accounts  int
	Fetched   int
	Published int
	Errors    int
	Duration  time.Duration
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"content_metrics/internal/domain"
)

type SweepStateStore struct {
	db *sqlx.DB
}

func NewSweepStateStore(db *sqlx.DB) *SweepStateStore {
	return &SweepStateStore{db: db}
}

func (s *SweepStateStore) Get(ctx context.Context, scope string) (*domain.SweepState, error) {
	var state domain.SweepState
	query := `
		SELECT id, scope, last_swept_at, last_succeeded, last_failed, total_samples
		FROM sweep_state
		WHERE scope = $1`

	err := s.db.GetContext(ctx, &state, query, scope)
	if errors.Is(err, sql.ErrNoRows) {
		// Scope has never been swept.
		return &domain.SweepState{Scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sweep state: %w", err)
	}
	return &state, nil
}

func (s *SweepStateStore) Update(ctx context.Context, state *domain.SweepState) error {
	query := `
		INSERT INTO sweep_state (scope, last_swept_at, last_succeeded, last_failed, total_samples)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (scope) DO UPDATE SET
			last_swept_at = EXCLUDED.last_swept_at,
			last_succeeded = EXCLUDED.last_succeeded,
			last_failed = EXCLUDED.last_failed,
			total_samples = EXCLUDED.total_samples`

	_, err := s.db.ExecContext(ctx, query,
		state.Scope,
		state.LastSweptAt,
		state.LastSucceeded,
		state.LastFailed,
		state.TotalSamples,
	)
	if err != nil {
		return fmt.Errorf("upsert sweep state: %w", err)
	}
	return nil
}

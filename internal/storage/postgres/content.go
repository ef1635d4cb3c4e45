package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"content_metrics/internal/domain"
)

const contentColumns = `id, user_id, platform, platform_content_id, published_at, created_at`

// ContentStore reads the content registry. Registry rows are owned by the
// surrounding application; this store never writes them.
type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ListTracked returns every content item the sweep should refresh.
func (s *ContentStore) ListTracked(ctx context.Context) ([]domain.ContentRef, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE tracked ORDER BY id`

	refs := make([]domain.ContentRef, 0)
	if err := s.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("select tracked contents: %w", err)
	}
	return refs, nil
}

func (s *ContentStore) Get(ctx context.Context, contentID int64) (*domain.ContentRef, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`

	var ref domain.ContentRef
	err := s.db.GetContext(ctx, &ref, query, contentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %d: %w", contentID, domain.ErrContentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	return &ref, nil
}

func (s *ContentStore) ListByPlatform(ctx context.Context, platform string) ([]domain.ContentRef, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE tracked AND LOWER(platform) = $1 ORDER BY id`

	refs := make([]domain.ContentRef, 0)
	if err := s.db.SelectContext(ctx, &refs, query, domain.NormalizePlatform(platform)); err != nil {
		return nil, fmt.Errorf("select contents by platform: %w", err)
	}
	return refs, nil
}

func (s *ContentStore) ListByUser(ctx context.Context, userID int64) ([]domain.ContentRef, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE user_id = $1 ORDER BY id`

	refs := make([]domain.ContentRef, 0)
	if err := s.db.SelectContext(ctx, &refs, query, userID); err != nil {
		return nil, fmt.Errorf("select contents by user: %w", err)
	}
	return refs, nil
}

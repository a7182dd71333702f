package ports

import (
	"context"

	"github.com/architeacher/docrepo/internal/domain/model"
)

// QueryHistoryRepository persists executed queries.
type QueryHistoryRepository interface {
	Record(ctx context.Context, record *model.QueryRecord) error
	Recent(ctx context.Context, limit uint64) ([]*model.QueryRecord, error)
}

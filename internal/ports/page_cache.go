package ports

import (
	"context"
	"time"

	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/pkg/cmis/query"
)

// PageCache stores search result pages keyed by the search that produced them.
type PageCache interface {
	GetPage(ctx context.Context, objectType string, cfg query.Configuration) (*model.DocumentPage, bool, error)
	SetPage(ctx context.Context, objectType string, cfg query.Configuration, page *model.DocumentPage, ttl time.Duration) error
	Purge(ctx context.Context) (int64, error)
}

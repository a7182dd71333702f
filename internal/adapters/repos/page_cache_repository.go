package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/internal/infrastructure"
	"github.com/architeacher/docrepo/pkg/cmis/query"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/cespare/xxhash/v2"
)

const (
	pageCacheVersion = "v1"
	pageKeyPrefix    = "docrepo:page:" + pageCacheVersion + ":"
)

// PageCacheRepository caches search result pages in Redis.
type PageCacheRepository struct {
	client *infrastructure.RedisClient
	logger logger.Logger
}

func NewPageCacheRepository(client *infrastructure.RedisClient, log logger.Logger) *PageCacheRepository {
	return &PageCacheRepository{
		client: client,
		logger: log,
	}
}

func (r *PageCacheRepository) GetPage(
	ctx context.Context,
	objectType string,
	cfg query.Configuration,
) (*model.DocumentPage, bool, error) {
	key, err := PageKey(objectType, cfg)
	if err != nil {
		return nil, false, err
	}

	data, found, err := r.client.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	var page model.DocumentPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false, fmt.Errorf("unmarshalling cached page: %w", err)
	}

	return &page, true, nil
}

func (r *PageCacheRepository) SetPage(
	ctx context.Context,
	objectType string,
	cfg query.Configuration,
	page *model.DocumentPage,
	ttl time.Duration,
) error {
	key, err := PageKey(objectType, cfg)
	if err != nil {
		return err
	}

	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshalling page: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("setting cached page: %w", err)
	}

	return nil
}

// Purge removes every cached page and returns how many were deleted.
func (r *PageCacheRepository) Purge(ctx context.Context) (int64, error) {
	deleted, err := r.client.DeleteMatching(ctx, pageKeyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("purging cached pages: %w", err)
	}

	log := r.logger.WithContext(ctx)

	log.Debug().Int64("deleted", deleted).Msg("purged cached pages")

	return deleted, nil
}

func (r *PageCacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// PageKey derives the cache key of a search. Equal configurations share a key.
func PageKey(objectType string, cfg query.Configuration) (string, error) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshalling query configuration: %w", err)
	}

	return pageKeyPrefix + objectType + ":" + strconv.FormatUint(xxhash.Sum64(payload), 16), nil
}

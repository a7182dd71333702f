package repos

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	queryHistoryTable = "query_history"

	DefaultHistoryLimit uint64 = 20
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var historyColumns = []string{
	"id", "statement", "object_type", "page", "page_size",
	"total_count", "duration_ms", "error", "executed_at",
}

type (
	// PoolOps defines the database operations the repositories need.
	PoolOps interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Ping(ctx context.Context) error
	}

	// QueryHistoryRepository persists executed searches in Postgres.
	QueryHistoryRepository struct {
		pool    PoolOps
		scanner Scanner
		logger  logger.Logger
	}

	queryRecordRow struct {
		ID         string    `db:"id"`
		Statement  string    `db:"statement"`
		ObjectType string    `db:"object_type"`
		Page       int       `db:"page"`
		PageSize   int       `db:"page_size"`
		TotalCount int       `db:"total_count"`
		DurationMS int64     `db:"duration_ms"`
		Error      string    `db:"error"`
		ExecutedAt time.Time `db:"executed_at"`
	}
)

func NewQueryHistoryRepository(pool PoolOps, scanner Scanner, log logger.Logger) *QueryHistoryRepository {
	return &QueryHistoryRepository{
		pool:    pool,
		scanner: scanner,
		logger:  log,
	}
}

func (r *QueryHistoryRepository) Record(ctx context.Context, record *model.QueryRecord) error {
	query, args, err := psql.Insert(queryHistoryTable).
		Columns(historyColumns...).
		Values(
			record.ID.String(),
			record.Statement,
			record.ObjectType,
			record.Page,
			record.PageSize,
			record.TotalCount,
			record.Duration.Milliseconds(),
			record.Error,
			record.ExecutedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err = r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", model.ErrHistoryQuery, err)
	}

	r.logger.Debug().
		Str("query_id", record.ID.String()).
		Str("object_type", record.ObjectType).
		Msg("query recorded")

	return nil
}

// Recent returns up to limit records, newest first. A zero limit uses DefaultHistoryLimit.
func (r *QueryHistoryRepository) Recent(ctx context.Context, limit uint64) ([]*model.QueryRecord, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	query, args, err := psql.Select(historyColumns...).
		From(queryHistoryTable).
		OrderBy("executed_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrHistoryQuery, err)
	}
	defer rows.Close()

	var dbRows []queryRecordRow
	if err := r.scanner.ScanAll(&dbRows, rows); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrHistoryQuery, err)
	}

	records := make([]*model.QueryRecord, 0, len(dbRows))

	for _, row := range dbRows {
		record, err := row.toModel()
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

func (r *QueryHistoryRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (row queryRecordRow) toModel() (*model.QueryRecord, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid record id %q: %v", model.ErrHistoryQuery, row.ID, err)
	}

	return &model.QueryRecord{
		ID:         id,
		Statement:  row.Statement,
		ObjectType: row.ObjectType,
		Page:       row.Page,
		PageSize:   row.PageSize,
		TotalCount: row.TotalCount,
		Duration:   time.Duration(row.DurationMS) * time.Millisecond,
		Error:      row.Error,
		ExecutedAt: row.ExecutedAt,
	}, nil
}

// Package postgres opens the query history database and keeps its schema current.
package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"slices"
	"strconv"

	"github.com/architeacher/docrepo/internal/config"
	"github.com/architeacher/docrepo/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const upMigrationPattern = "*.up.sql"

type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ConnString renders cfg as a postgres URL. Credentials are escaped.
func ConnString(cfg config.Database) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   cfg.Host + ":" + strconv.FormatUint(uint64(cfg.Port), 10),
		Path:   "/" + cfg.Database,
	}

	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}

	return u.String()
}

// NewPool connects and pings, so an unreachable database fails here.
func NewPool(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parsing connection settings: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}

	poolConfig.MinConns = int32(min(cfg.MinConnections, int(poolConfig.MaxConns)))
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging %s: %w", cfg.Host, err)
	}

	return pool, nil
}

// Migrate applies the embedded up migrations in name order. Every migration
// is idempotent and runs on each start.
func Migrate(ctx context.Context, db Execer) error {
	return migrate(ctx, db, migrations.FS)
}

func migrate(ctx context.Context, db Execer, fsys fs.FS) error {
	files, err := migrationFiles(fsys)
	if err != nil {
		return err
	}

	for _, name := range files {
		statement, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := db.Exec(ctx, string(statement)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
	}

	return nil
}

func migrationFiles(fsys fs.FS) ([]string, error) {
	files, err := fs.Glob(fsys, upMigrationPattern)
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	slices.Sort(files)

	return files, nil
}

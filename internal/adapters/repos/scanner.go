package repos

import (
	"github.com/georgysavva/scany/v2/dbscan"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// Scanner fills a slice of structs from rows, matching columns by db tag.
type Scanner interface {
	ScanAll(dst any, rows pgx.Rows) error
}

// PgxScanner tolerates columns without a matching field, so new history
// columns do not break older binaries reading the same table.
type PgxScanner struct {
	api *pgxscan.API
}

var lenientScanAPI = mustScanAPI(dbscan.WithAllowUnknownColumns(true))

func NewPgxScanner() *PgxScanner {
	return &PgxScanner{api: lenientScanAPI}
}

func (s *PgxScanner) ScanAll(dst any, rows pgx.Rows) error {
	return s.api.ScanAll(dst, rows)
}

func mustScanAPI(opts ...dbscan.APIOption) *pgxscan.API {
	dbAPI, err := pgxscan.NewDBScanAPI(opts...)
	if err != nil {
		panic(err)
	}

	api, err := pgxscan.NewAPI(dbAPI)
	if err != nil {
		panic(err)
	}

	return api
}

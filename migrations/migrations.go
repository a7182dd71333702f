// Package migrations embeds the SQL schema of the query history store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

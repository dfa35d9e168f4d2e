// Package migrations holds the numbered up/down SQL files applied by the
// SQLite store. Only *.up.sql files are run; down files document rollback.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

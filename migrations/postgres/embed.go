// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contiene las migraciones <version>_<name>.up.sql / .down.sql.
//
//go:embed *.sql
var FS embed.FS

// Package migrations holds the portal's PostgreSQL schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

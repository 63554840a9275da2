// Package migrations embeds the identity authority's PostgreSQL schema
// migrations for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

// Package migrations embeds the PostgreSQL schema migrations so the binary
// is self-contained.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Package migrations embeds the numbered, additive schema migrations.
// Files are named NNN_description.up.sql and applied in order exactly once.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS

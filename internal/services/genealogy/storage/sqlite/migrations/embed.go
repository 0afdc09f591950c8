// Package migrations embeds SQLite schema migrations for genealogy
// storage.
package migrations

import "embed"

// FS contains embedded SQLite migrations for genealogy storage.
//
//go:embed *.sql
var FS embed.FS

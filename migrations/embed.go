// Package migrations embeds the engine database schema migrations so the
// binary can bring its own schema up to date at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

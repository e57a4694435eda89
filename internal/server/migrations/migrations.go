// Package migrations embeds the goose schema migrations for both supported
// storage backends. Each dialect keeps its own directory.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

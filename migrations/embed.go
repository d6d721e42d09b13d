// Package migrations embeds the per-driver SQL migration files so the
// binary can migrate its own schema without a migrations directory on
// disk.
package migrations

import "embed"

//go:embed sqlite postgres
var FS embed.FS

// Package migrations embeds the numbered schema scripts, one directory per
// sql dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql mysql/*.sql
var All embed.FS

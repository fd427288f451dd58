// Package migrations embeds the SQL applied on top of the gorm schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

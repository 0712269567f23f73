// Package migrations embeds the SQL schema for each supported store.
package migrations

import "embed"

// FS holds postgres/*.sql and sqlite/*.sql, applied in file name order.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

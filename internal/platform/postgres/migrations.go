package postgres

import "embed"

// MigrationsFS embeds the SQL migration files applied at startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

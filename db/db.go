// Package db embeds the goose SQL migrations so the binary can migrate
// without shipping the files alongside it.
package db

import "embed"

// MigrationsDir is the directory inside Migrations that goose reads.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS

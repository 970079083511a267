package store

import "embed"

// Migrations holds the embedded goose migrations for the postgres store.
//
//go:embed migrations/*.sql
var Migrations embed.FS

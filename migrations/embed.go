// Package migrations встраивает SQL-миграции для поддерживаемых драйверов.
package migrations

import "embed"

// Каталоги миграций внутри FS.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

// FS содержит миграции для всех драйверов.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

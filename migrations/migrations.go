// Package migrations содержит SQL-миграции схемы, встроенные в бинарник.
package migrations

import "embed"

// FS - миграции в формате goose.
//
//go:embed *.sql
var FS embed.FS

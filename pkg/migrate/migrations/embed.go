// Package migrations holds the goose SQL files compiled into the binaries.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Package migrations embebe los scripts SQL versionados (golang-migrate) en el binario.
package migrations

import "embed"

// FS contiene los archivos NNNNNN_nombre.{up,down}.sql.
//
//go:embed *.sql
var FS embed.FS

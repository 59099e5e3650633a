// Package migrations embeds the SQL schema so the server and cron runner
// can apply it with goose without a migrations directory on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

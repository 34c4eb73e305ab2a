// assets/embed.go
//
// Files compiled into the binary.
//   - migrations/*.sql: SQLite schema, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var FS embed.FS

// Migrations returns the embedded migration paths, sorted.
func Migrations() ([]string, error) {
	var out []string
	err := fs.WalkDir(FS, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// ReadMigration returns the SQL text of one migration.
func ReadMigration(name string) (string, error) {
	b, err := fs.ReadFile(FS, name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

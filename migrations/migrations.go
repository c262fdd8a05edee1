// Package migrations embeds the SurrealQL schema files and applies them in
// file name order. Every statement is idempotent, so Apply runs on each
// server start.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/sgt/fitapi/internal/database"
)

//go:embed *.surql
var files embed.FS

// Load returns the migration file contents sorted by file name
func Load() ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".surql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]string, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		migrations = append(migrations, string(content))
	}
	return migrations, nil
}

// Apply executes every migration against db
func Apply(ctx context.Context, db database.Database) error {
	migs, err := Load()
	if err != nil {
		return err
	}
	for i, mig := range migs {
		if err := db.Execute(ctx, mig, nil); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const upSuffix = ".up.sql"

// Execer is the subset of *sqlx.DB the migration runner needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// RunMigrations applies every *.up.sql file found in dir of fsys, in file
// name order. Applied versions are recorded in schema_migrations and skipped
// on later runs. Oracle runs one statement per call, so files are split on
// semicolons.
func RunMigrations(ctx context.Context, db Execer, fsys fs.FS, dir string, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := migrationFiles(fsys, dir)
	if err != nil {
		return 0, err
	}
	if err := ensureVersionTable(ctx, db); err != nil {
		return 0, err
	}

	applied := 0
	for _, name := range files {
		version := strings.TrimSuffix(name, upSuffix)

		var seen int
		if err := db.GetContext(ctx, &seen, `SELECT COUNT(*) FROM schema_migrations WHERE version = :1`, version); err != nil {
			return applied, fmt.Errorf("could not check migration %s: %w", version, err)
		}
		if seen > 0 {
			logger.Debug("Skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return applied, fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		for i, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return applied, fmt.Errorf("could not execute statement %d of migration %s: %w", i+1, name, err)
			}
		}

		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)`, version, time.Now()); err != nil {
			return applied, fmt.Errorf("could not record migration %s: %w", version, err)
		}
		applied++
		logger.Info("Executed migration", zap.String("version", version))
	}

	logger.Info("Migrations completed", zap.Int("applied", applied), zap.Int("total", len(files)))
	return applied, nil
}

func migrationFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), upSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func ensureVersionTable(ctx context.Context, db Execer) error {
	var exists int
	query := `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`
	if err := db.GetContext(ctx, &exists, query); err != nil {
		return fmt.Errorf("could not look up schema_migrations: %w", err)
	}
	if exists > 0 {
		return nil
	}
	_, err := db.ExecContext(ctx, `CREATE TABLE schema_migrations (version VARCHAR2(255) PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`)
	if err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

// SplitStatements splits a SQL script on semicolons, dropping "--" comment
// lines and empty statements.
func SplitStatements(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

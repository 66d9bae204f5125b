package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"time"

	"lecture-qa/database"
	"lecture-qa/internal/config"
	internaldb "lecture-qa/internal/database"
	"lecture-qa/internal/logger"

	"go.uber.org/zap"
)

// migrationSource prefers the directory named by db.migrations_path and
// falls back to the migrations compiled into the binary.
func migrationSource(dir string) (fs.FS, string) {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return os.DirFS(dir), "."
	}
	return database.Migrations, "migrations"
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := internaldb.NewSQLXOracleDB(ctx, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	fsys, dir := migrationSource(cfg.DB.MigrationsPath)
	applied, err := internaldb.RunMigrations(ctx, db, fsys, dir, l)
	if err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err), zap.Int("applied", applied))
	}
}

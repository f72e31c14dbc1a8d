package main

import (
	"database/sql"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ikkim/verification-backend/config"
	"github.com/ikkim/verification-backend/pkg/logger"
	_ "github.com/lib/pq"
)

var (
	down = flag.Bool("down", false, "run migration down")
	dir  = flag.String("dir", "db/migrations", "migrations directory")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Initialize(logger.Config{
		Level:       cfg.Server.LogLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: true,
	})

	url := os.Getenv("POSTGRESQL_URL")
	if url == "" {
		url = cfg.Database.URL()
	}

	conn, err := sql.Open("postgres", url)
	if err != nil {
		logger.Fatal("Failed to open database connection", err)
	}
	defer conn.Close()

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		logger.Fatal("Failed to create migration driver", err)
	}

	abs, err := filepath.Abs(*dir)
	if err != nil {
		logger.Fatal("Failed to resolve migrations directory", err)
	}
	source := "file://" + filepath.ToSlash(abs)
	logger.Info("Using migrations", map[string]interface{}{"source": source})

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		logger.Fatal("Failed to create migrator", err)
	}

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Migration failed", err, map[string]interface{}{"down": *down})
	}

	version, dirty, _ := m.Version()
	logger.Info("Migrations applied", map[string]interface{}{
		"version": version,
		"dirty":   dirty,
		"down":    *down,
	})
}

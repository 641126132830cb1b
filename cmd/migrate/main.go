package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/straye-as/relation-sync/internal/config"
	"github.com/straye-as/relation-sync/internal/database"
)

// sourceMigrationsDir is where "create" writes new migrations; they are
// embedded into the binary on the next build.
const sourceMigrationsDir = "./internal/database/migrations"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate [up|down|status|version|reset|create <name>]")
	}
	command := args[0]

	db, err := open(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if command == "create" {
		if len(args) < 2 {
			return fmt.Errorf("create requires a migration name")
		}
		if err := goose.SetDialect(database.GooseDialect(cfg.Database.Driver)); err != nil {
			return fmt.Errorf("failed to set dialect: %w", err)
		}
		if err := goose.Create(db, sourceMigrationsDir, args[1], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		fmt.Printf("Migration created: %s\n", args[1])
		return nil
	}

	if err := database.RunCommand(db, cfg.Database.Driver, command); err != nil {
		return err
	}

	switch command {
	case "up":
		fmt.Println("Migrations applied successfully")
	case "down":
		fmt.Println("Migration rolled back successfully")
	case "reset":
		fmt.Println("All migrations rolled back")
	case "version", "status":
		version, err := database.CurrentVersion(db, cfg.Database.Driver)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		fmt.Printf("Current version: %d\n", version)
	}
	return nil
}

// open connects with the plain database/sql driver for the configured backend
func open(cfg *config.DatabaseConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	if database.GooseDialect(cfg.Driver) == "postgres" {
		db, err = sql.Open("postgres", cfg.ConnectionString())
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err = sql.Open("sqlite3", cfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

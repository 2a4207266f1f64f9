package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	migrationUp   = "up"
	migrationDown = "down"
)

func mustMigrateUp(m *migrate.Migrate) {
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}

		panic(err)
	}

	fmt.Println("migrations applied successfully")
}

func mustMigrateDown(m *migrate.Migrate) {
	if err := m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}

		panic(err)
	}

	fmt.Println("migrations downed successfully")
}

func main() {
	var dsn, migrationsPath, migrationsTable, migrationType string
	flag.StringVar(&migrationType, "migration-type", migrationUp, "migration type")
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN")
	flag.StringVar(&migrationsPath, "migrations-path", "", "path to migrations")
	flag.StringVar(&migrationsTable, "migrations-table", "migrations", "name of migrations table")
	flag.Parse()

	if dsn == "" {
		panic("dsn is required")
	}

	if migrationsPath == "" {
		panic("migrations-path is required")
	}

	sourceURL := fmt.Sprintf("file://%s", migrationsPath)
	m, err := migrate.New(
		sourceURL,
		dbURL(dsn, migrationsTable),
	)

	if err != nil {
		panic(err)
	}

	if migrationType == migrationDown {
		mustMigrateDown(m)
		return
	}

	mustMigrateUp(m)
}

func dbURL(dsn, migrationsTable string) string {
	if strings.Contains(dsn, "?") {
		return fmt.Sprintf("%s&x-migrations-table=%s", dsn, migrationsTable)
	}

	return fmt.Sprintf("%s?x-migrations-table=%s", dsn, migrationsTable)
}

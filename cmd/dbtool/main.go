package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"route-hazard-service/internal/platform/db"
)

// dbtool manages the geocode cache schema: `dbtool init` creates the table,
// `dbtool reset` drops and recreates it.
func main() {
	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = "init"
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	ctx := context.Background()

	switch command {
	case "init":
		if err := initSchema(ctx, pg); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		log.Println("Schema ready.")
	case "reset":
		if err := resetSchema(ctx, pg); err != nil {
			log.Fatalf("schema reset failed: %v", err)
		}
		log.Println("Schema reset.")
	default:
		log.Fatalf("unknown command %q (want init or reset)", command)
	}
}

func initSchema(ctx context.Context, pg *sql.DB) error {
	log.Println("Initializing database schema...")
	_, err := pg.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon     DOUBLE PRECISION NOT NULL,
		lat     DOUBLE PRECISION NOT NULL
	);
	`)
	return err
}

func resetSchema(ctx context.Context, pg *sql.DB) error {
	if _, err := pg.ExecContext(ctx, `DROP TABLE IF EXISTS geocode_cache;`); err != nil {
		return err
	}
	return initSchema(ctx, pg)
}

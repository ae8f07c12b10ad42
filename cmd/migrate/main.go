package main

import (
	"flag"
	"log"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/call-insight/internal/infrastructure/database"
	"github.com/johnquangdev/call-insight/pkg/config"
)

func main() {
	direction := flag.String("direction", "up", "up or down")
	limit := flag.Int("max", 0, "maximum number of migrations to apply (0 = all)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dir := migrate.Up
	switch *direction {
	case "up":
	case "down":
		dir = migrate.Down
	default:
		log.Fatalf("Unknown direction %q, expected up or down", *direction)
	}

	// Migrations always target the primary
	db, err := database.NewPostgresDB(cfg, cfg.GetWriteDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Printf("🔄 Applying embedded migrations (%s)...", *direction)
	n, err := database.Migrate(db, dir, *limit)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("✅ Successfully applied %d migration(s)!\n", n)
}

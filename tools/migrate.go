package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"freight-admin/config"
	"freight-admin/database"
	"freight-admin/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run tools/migrate.go migrate   - Run schema migrations")
		fmt.Println("  go run tools/migrate.go ping      - Check the database connection")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Setup(cfg.LogDir, true); err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		fmt.Println("🚀 Running database migrations...")
		// InitDB migrates on connect.
		if _, err := database.InitDB(cfg.Database, true); err != nil {
			fmt.Printf("❌ Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Migration completed successfully!")

	case "ping":
		db, err := database.InitDB(cfg.Database, false)
		if err != nil {
			fmt.Printf("❌ Connection failed: %v\n", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			fmt.Printf("❌ Ping failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Database reachable")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Available commands: migrate, ping")
	}
}

package main

import (
	"fmt"
	"log"

	"delivery_manager/internal/config"
	"delivery_manager/internal/database"
	"delivery_manager/internal/migrations"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Println("Database initialization completed successfully!")
	fmt.Println("Default login: admin / admin123")
}

package main

import (
	"flag"
	"log"

	"github.com/IvanKorch1289/foodgram/config"
	"github.com/IvanKorch1289/foodgram/internal/database"
)

func main() {
	dir := flag.String("dir", "migrations", "Directory with SQL migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, *dir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("All migrations applied")
}

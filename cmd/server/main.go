package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/matthewbaird/appdeck/internal/registry"
	"github.com/matthewbaird/appdeck/internal/server"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "file:appdeck.db"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	apps := registry.NewSQLiteStore(db)
	if err := apps.Migrate(ctx); err != nil {
		log.Fatalf("running registry migration: %v", err)
	}
	log.Println("registry migrated successfully")

	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	if err := server.Run(ctx, server.Config{
		Port:       port,
		Apps:       apps,
		AIEndpoint: os.Getenv("AI_ENDPOINT"),
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

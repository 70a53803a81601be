package main

import (
	"context"
	"flag"
	"fmt"

	"assist_backend/internal/config"
	"assist_backend/internal/db"
	"assist_backend/internal/logger"
	"assist_backend/internal/migrations"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if !*apply {
		names, err := migrations.Names()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	pool := db.Connect(cfg.DatabaseURL, cfg.DatabaseUsername, cfg.DatabasePassword)
	defer pool.Close()

	err := migrations.Apply(context.Background(), pool, func(name string) {
		fmt.Printf("applied %s\n", name)
	})
	if err != nil {
		logger.Fatal("migration failed", "error", err)
	}
}

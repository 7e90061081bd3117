package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taperia-pos/api/internal/config"
	"github.com/taperia-pos/api/internal/ledger"
	"github.com/taperia-pos/api/internal/menu"
	"github.com/taperia-pos/api/internal/router"
	"github.com/taperia-pos/api/internal/store"
	"github.com/taperia-pos/api/internal/ws"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var kv store.KV
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("create pool: %v", err)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		kv = pg
	} else {
		log.Println("WARNING: DATABASE_URL not set, orders will not survive a restart")
		kv = store.NewMemory()
	}

	// A failed menu load is not fatal: the ledger still works and browsing
	// degrades to empty listings until a menu is supplied.
	m, err := menu.Load(ctx, cfg.MenuURL, cfg.MenuFile)
	if err != nil {
		log.Printf("ERROR: load menu: %v", err)
	}

	led := ledger.Open(ctx, kv)

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, led, m, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (optional)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	maps, err := LoadMaps(cfg.MapsDir)
	if err != nil {
		log.Fatalf("maps: %v", err)
	}

	var db *DB
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
	}

	game := NewGame(maps, cfg.RoundSeconds)
	go game.Run()

	hub := NewHub(game, db)
	go hub.Run()

	mux := SetupRoutes(hub, cfg.ClientDir, cfg.PublicURL)
	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server starting on %s (%d maps loaded)", cfg.Addr, len(maps))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down...")
	game.Stop()
	server.Close()
}

// One-shot reconciliation pass against the relay topic, for cron jobs and
// for checking a device's local state from the command line.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"inkstudio/internal/config"
	"inkstudio/internal/database"
	syncsvc "inkstudio/internal/modules/sync"
	"inkstudio/internal/relay"
	"inkstudio/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	relayClient := relay.New(cfg.RelayURL, cfg.RelayTopic, cfg.RelayTimeout)
	service := syncsvc.NewService(repository.NewSyncStore(db), relayClient, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := service.Reconcile(ctx)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("done: events=%d visits=%d imported=%d removed=%d tombstones=%d",
		res.Events, res.Visits, res.Imported, res.Removed, res.Tombstones)
}

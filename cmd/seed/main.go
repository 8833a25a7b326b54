package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/joho/godotenv"

	"inkstudio/internal/config"
	"inkstudio/internal/database"
	"inkstudio/internal/domain"
	"inkstudio/internal/repository"
)

// defaultPortfolio is the artist's starting gallery, referenced by URL
// until real uploads replace it.
var defaultPortfolio = []string{
	"https://i.ibb.co/CxzGX9L/i-Screen-Shoter-Safari-251231004301.jpg",
	"https://i.ibb.co/rRbrV2sV/i-Screen-Shoter-Safari-251231004230.jpg",
	"https://i.ibb.co/WvpMgcfp/i-Screen-Shoter-Safari-251231004212.jpg",
	"https://i.ibb.co/wh7GxJXg/i-Screen-Shoter-20251231004029161.jpg",
	"https://i.ibb.co/cSMvhVyY/i-Screen-Shoter-Safari-251231003950.jpg",
	"https://i.ibb.co/YFXhHjRg/DSC00042-newer-1.jpg",
	"https://i.ibb.co/KjSvVqhb/IMG-7542.jpg",
	"https://i.ibb.co/8n5LxKV5/IMG-7543.jpg",
	"https://i.ibb.co/3YPpgpKp/IMG-7544.jpg",
	"https://i.ibb.co/dsJ80mNw/DSC08582-new-ps.jpg",
	"https://i.ibb.co/XrvhhKCq/IMG-7547.jpg",
	"https://i.ibb.co/spbBbBKr/IMG-7546.jpg",
	"https://i.ibb.co/zTvxDwtz/IMG-7545.jpg",
	"https://i.ibb.co/DHt9yhP0/IMG-7548.jpg",
	"https://i.ibb.co/Z1FjY7qx/IMG-7549.jpg",
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	settings := repository.NewSettingsRepository(db)

	seedIfMissing := func(key string, value func() (string, error)) {
		if _, ok, err := settings.Get(ctx, key); err != nil {
			log.Fatal(err)
		} else if ok {
			log.Printf("skip %s: already set", key)
			return
		}
		v, err := value()
		if err != nil {
			log.Fatal(err)
		}
		if err := settings.Put(ctx, key, v); err != nil {
			log.Fatal(err)
		}
		log.Printf("seeded %s", key)
	}

	seedIfMissing(repository.KeyFormFields, func() (string, error) {
		raw, err := json.Marshal(domain.DefaultFormFields())
		return string(raw), err
	})
	seedIfMissing(repository.KeyPortfolio, func() (string, error) {
		raw, err := json.Marshal(defaultPortfolio)
		return string(raw), err
	})

	log.Println("Seed complete.")
}

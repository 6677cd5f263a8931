package main

import (
	"flag"
	"log"

	"github.com/NoteVault-io/notevault/internal/api"
	"github.com/NoteVault-io/notevault/internal/auth"
	"github.com/NoteVault-io/notevault/internal/config"
	"github.com/NoteVault-io/notevault/internal/database"
	"github.com/NoteVault-io/notevault/internal/storage"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting NoteVault API v%s with config: %s", version, *configPath)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal(err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret)
	authSvc := auth.NewService(database.NewUserStore(db), tokens, cfg.TokenTTL())

	var exports *storage.S3Client
	if cfg.S3.Bucket != "" {
		exports, err = storage.NewS3Client(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Note export enabled (bucket %s)", cfg.S3.Bucket)
	}

	a, err := api.New(cfg, authSvc, tokens, database.NewNoteStore(db), exports)
	if err != nil {
		log.Fatal(err)
	}

	log.Fatal(a.Serve())
}

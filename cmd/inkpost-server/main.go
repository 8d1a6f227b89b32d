package main

import (
	"log"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/identity"
	"github.com/inkpost/inkpost/internal/server"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		// a missing signing key must stop the process here, never at request time
		log.Fatalf("configuration error: %v", err)
	}

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer db.Close()

	tokens := auth.NewTokenService([]byte(cfg.SigningKey), cfg.TokenExpiration, cfg.Issuer, nil)
	creds := identity.NewService(identity.NewUsersRepository(db))

	srv := server.New(cfg, creds, tokens)

	log.Printf("inkpost server listening on %s", cfg.Address)
	if err := srv.Listen(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

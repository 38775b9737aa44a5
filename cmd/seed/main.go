package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/tkarls/memberbase/config"
	"github.com/tkarls/memberbase/internal/domain/entity"
	"github.com/tkarls/memberbase/internal/domain/repository"
	sqliteinfra "github.com/tkarls/memberbase/internal/infrastructure/sqlite"
	"github.com/tkarls/memberbase/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	store, err := sqliteinfra.Open(cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("failed to open user store: %v", err)
	}
	defer func() { _ = store.Close() }()

	email := "demo@memberbase.local"
	password := "password123"

	hash, err := helpers.NewHasher(cfg.BcryptCost).Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	repo := sqliteinfra.NewUserRepository(store)
	u := &entity.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		MembershipLevel: entity.MembershipGold,
		Points:          500,
		CreatedAt:       time.Now().UTC(),
	}
	err = repo.Create(context.Background(), u)
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		fmt.Printf("demo user already present: email=%s password=%s\n", email, password)
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	default:
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)
	}
}

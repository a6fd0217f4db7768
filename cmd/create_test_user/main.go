package main

import (
	"context"
	"log"
	"os"

	"webnovel/internal/db"
	"webnovel/internal/domain"
	"webnovel/internal/repository"
	"webnovel/internal/service"

	"golang.org/x/crypto/bcrypt"
)

// Creates a local test account and prints a token for it.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	email := "tester@example.com"

	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("test-password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}

		u = &domain.User{
			Email:        email,
			Username:     "tester",
			PasswordHash: string(hash),
			Role:         domain.RoleReader,
			CoinBalance:  1000,
		}
		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d\n", u.ID)
	} else {
		log.Printf("user already exists id=%d\n", u.ID)
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}

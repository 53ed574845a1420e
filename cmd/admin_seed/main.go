// Seeds the admin account. Intended for first deployment and local
// development; safe to re-run.
package main

import (
	"context"
	"log"
	"os"

	"cryptopay/internal/config"
	"cryptopay/internal/models"
	"cryptopay/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.Close()
		}
	}()

	ledger := repositories.NewPostgresLedger(db)
	ctx := context.Background()

	if _, err := ledger.GetAccountByEmail(ctx, adminEmail); err == nil {
		log.Println("admin account already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &models.Account{
		Email:        adminEmail,
		FullName:     "Administrator",
		PasswordHash: string(hashed),
		IsAdmin:      true,
		Status:       models.AccountStatusActive,
	}
	if err := ledger.CreateAccount(ctx, admin); err != nil {
		log.Fatalf("failed to create admin account: %v", err)
	}
	log.Printf("admin account created: %s", admin.ID)
}

package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"myshop/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: go run ./cmd/create_user <email> <password> [role ...]")
		os.Exit(2)
	}
	email := os.Args[1]
	password := os.Args[2]
	roles := os.Args[3:]

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	// check existing
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%s)\n", email, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{Email: email, HashedPassword: hpw, Roles: roles}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%s roles=%v\n", email, user.ID, user.Roles)
}

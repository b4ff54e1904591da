package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type User struct {
	Email          string
	HashedPassword []byte
}

func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new plaintext password (min 12 chars)")
	flag.Parse()
	if *email == "" || *password == "" {
		log.Fatal("--email and --password are required")
	}
	if len(*password) < 12 {
		log.Fatal("password too short (min 12)")
	}
	loadDotEnv()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	var user User
	if err := db.Table("users").Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	if err := db.Table("users").Where("email = ?", *email).Update("hashed_password", hash).Error; err != nil {
		log.Fatalf("update failed: %v", err)
	}
	// existing refresh tokens stay valid; revoke them so stolen sessions die with the old password
	if err := db.Exec("DELETE FROM refresh_tokens WHERE user_id = (SELECT id FROM users WHERE email = ?)", *email).Error; err != nil {
		log.Printf("warning: failed to revoke refresh tokens: %v", err)
	}
	fmt.Printf("Password reset for user %s\n", user.Email)
}

// Minimal .env loader (non-destructive)
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if eq := strings.IndexByte(line, '='); eq > 0 {
			k := strings.TrimSpace(line[:eq])
			v := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}
}

package main

import (
	"context"
	"log"
	"time"

	"myshop/pkg/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Wiring shared by the handlers, assembled once at startup.
var (
	appCfg   Config
	signer   *token.Signer
	registry *Registry
	sessions *SessionIssuer
	cookies  cookieBinder
	mailer   Mailer
)

const sweepInterval = time.Hour

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	initDB(cfg)
	initApp(cfg)

	registry.StartSweeper(context.Background(), sweepInterval)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"WWW-Authenticate"}, // the refresh trigger
		AllowCredentials: true,
	}))
	setupRoutes(r)

	log.Printf("Ecommerce listening at http://localhost:%s", cfg.Port)
	log.Printf("Swagger UI served at http://localhost:%s/docs", cfg.Port)
	log.Printf("OpenAPI JSON served at http://localhost:%s/docs/openapi.json", cfg.Port)
	r.Run(":" + cfg.Port)
}

// initApp wires the auth components from config. db must be initialized first.
func initApp(cfg Config) {
	appCfg = cfg
	signer = token.NewSigner(cfg.AccessSecret, cfg.AccessTokenTTL)
	registry = NewRegistry(db, cfg.RefreshTokenTTL)
	sessions = NewSessionIssuer(signer, registry, db)
	cookies = cookieBinder{production: cfg.Production, refreshTTL: cfg.RefreshTokenTTL}
	if cfg.ContactReceiver != "" {
		mailer = newResendMailer(cfg.ResendAPIKey, cfg.ContactReceiver)
	}
}

// Command devtoken prints a signed access token for local testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/farellandr/eventgate/config"
	"github.com/farellandr/eventgate/internal/middleware"
	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "address to embed in the token")
	role := flag.String("role", "attendee", "role claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load(".env")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.AuthEnabled() {
		log.Fatal("JWT_SECRET is not set")
	}
	if *email == "" {
		log.Fatal("-email is required")
	}

	token, err := middleware.SignAccessToken(cfg.JWTSecret, *email, *role, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}

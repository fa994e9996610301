package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/catalogbench/backend/internal/config"
	"github.com/catalogbench/backend/pkg/jwt"
	"github.com/joho/godotenv"
)

// Prints an admin bearer token signed with ADMIN_JWT_SECRET.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()
	subject := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", cfg.AdminTokenDuration, "token lifetime")
	flag.Parse()

	token, err := jwt.GenerateToken(*subject, jwt.RoleAdmin, cfg.AdminJWTSecret, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to sign token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

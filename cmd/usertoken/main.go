// Command usertoken prints a bearer token for the mutating user routes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"user-registry-api/config"
	"user-registry-api/internal/infrastructure/jwt"
)

func main() {
	subject := flag.String("sub", "ops", "token subject")
	role := flag.String("role", jwt.RoleAdmin, "token role: admin, writer or reader")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if !jwt.IsKnownRole(*role) {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	_ = godotenv.Load(".env")
	cfg := config.Load()
	if cfg.App.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "SERVICE_JWT_SECRET is not set")
		os.Exit(1)
	}

	tok, err := jwt.New(cfg.App.JWTSecret).GenerateJWT(*subject, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tok)
}

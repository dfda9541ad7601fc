// Command tokengen mints HS256 bearer tokens for local development, standing
// in for the identity provider the mobile client talks to in production.
//
// Usage:
//
//	TOKEN_SECRET=... go run ./cmd/tokengen -uid user-123 -ttl 24h
//
// The printed token goes straight into an Authorization header:
//
//	curl -H "Authorization: Bearer $TOKEN" localhost:8080/api/notes
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/FredrikNymoen/NoteApp/internal/auth"
)

func main() {
	uid := flag.String("uid", "", "user id to embed as the token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	issuer := flag.String("issuer", "noteapp", "token issuer (must match the server's TOKEN_ISSUER)")
	flag.Parse()

	if *uid == "" {
		fmt.Fprintln(os.Stderr, "tokengen: -uid is required")
		os.Exit(2)
	}

	_ = godotenv.Load()

	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "tokengen: TOKEN_SECRET is not set")
		os.Exit(1)
	}

	tokens, err := auth.NewTokenService(secret, *issuer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	token, err := tokens.GenerateWithDuration(*uid, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}

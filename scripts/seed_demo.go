package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/khoahotran/profile-pages/pkg/auth"
)

// seed_demo adds the demo users alice and bob and prints an admin token
// that may call the revalidation endpoint.
func main() {
	fmt.Println("adding demo profiles into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	secret := os.Getenv("JWT_SECRET")
	operator := os.Getenv("ADMIN_OPERATOR")
	if operator == "" {
		operator = "ops"
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	userQuery := `
		INSERT INTO users (id, username, name, bio, theme)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET name = $3, bio = $4, theme = $5
		RETURNING id
	`
	var aliceID uuid.UUID
	err = pool.QueryRow(ctx, userQuery, uuid.New(), "alice", nil, "hi", "dark").Scan(&aliceID)
	if err != nil {
		log.Fatalf("cannot add alice: %v", err)
	}
	if _, err := pool.Exec(ctx, userQuery, uuid.New(), "bob", nil, nil, nil); err != nil {
		log.Fatalf("cannot add bob: %v", err)
	}

	eventQuery := `
		INSERT INTO event_types (user_id, slug, title, length, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, slug) DO UPDATE SET title = $3, length = $4, description = $5
	`
	_, err = pool.Exec(ctx, eventQuery, aliceID, "intro", "Intro Call", 30, "short chat")
	if err != nil {
		log.Fatalf("cannot add event type: %v", err)
	}
	fmt.Println("added or updated 'alice' and 'bob' successfully!")

	if secret == "" {
		log.Println("warning: JWT_SECRET not set, skipping admin token.")
		return
	}
	token, err := auth.NewJWTService(secret, 24*time.Hour).GenerateToken(operator, auth.ScopeRevalidate)
	if err != nil {
		log.Fatalf("cannot issue admin token: %v", err)
	}
	fmt.Printf("admin token for '%s' (24h):\n%s\n", operator, token)
}

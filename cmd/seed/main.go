package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/streakie-app/streakie-api/config"
	"github.com/streakie-app/streakie-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@streakie.app"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	today := helpers.DateOf(time.Now())
	for _, title := range []string{"Drink water", "Read 20 pages", "Go for a run"} {
		if _, err := db.Exec(`
			INSERT INTO todos (user_id, title, todo_date)
			VALUES ($1, $2, $3)
		`, id, title, today); err != nil {
			log.Fatalf("failed to seed todo %q: %v", title, err)
		}
	}
	fmt.Printf("seeded 3 todos for %s\n", helpers.FormatDate(today))
}
